package main

import (
	"strings"

	"github.com/spf13/cobra"

	"lnr/internal/api"
	"lnr/internal/config"
)

type createCmdOptions struct {
	description string
	status      string
	priority    string
	assigneeID  string
}

func newCreateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &createCmdOptions{}
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new task",
		Args:  requireAtLeastArgs(1, "title is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := buildCreateRequest(cmd, opts, args)
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				resp, err := client.CreateTask(cmd.Context(), req)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writePlain("%s\n", resp.TaskID)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&opts.status, "status", "s", "", "initial status (todo, in_progress, in_review, done)")
	cmd.Flags().StringVarP(&opts.priority, "priority", "p", "", "priority (urgent, high, medium, low, none)")
	cmd.Flags().StringVar(&opts.assigneeID, "assignee", "", "assignee member id")
	return cmd
}

func buildCreateRequest(cmd *cobra.Command, opts *createCmdOptions, args []string) api.TaskCreateRequest {
	req := api.TaskCreateRequest{Title: strings.Join(args, " ")}
	if cmd.Flags().Changed("description") {
		req.Description = &opts.description
	}
	if cmd.Flags().Changed("status") {
		req.Status = &opts.status
	}
	if cmd.Flags().Changed("priority") {
		req.Priority = &opts.priority
	}
	if cmd.Flags().Changed("assignee") {
		req.AssigneeID = &opts.assigneeID
	}
	return req
}
