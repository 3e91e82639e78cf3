package main

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lnr/internal/api"
	"lnr/internal/config"
)

func newListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		search     string
		statuses   []string
		assigneeID string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			setIfNotEmpty(query, "q", search)
			setIfNotEmpty(query, "status", strings.Join(statuses, ","))
			setIfNotEmpty(query, "assignee_id", assigneeID)
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}

			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				resp, err := client.ListTasks(cmd.Context(), query)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeTaskList(resp)
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "q", "", "match title or description")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "status filter (repeatable or comma separated)")
	cmd.Flags().StringVar(&assigneeID, "assignee", "", "assignee member id")
	cmd.Flags().IntVar(&limit, "limit", 0, "limit results")
	return cmd
}

func setIfNotEmpty(values url.Values, key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	values.Set(key, value)
}
