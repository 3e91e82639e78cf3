package main

import (
	"slices"

	"github.com/spf13/cobra"

	"lnr/internal/api"
	"lnr/internal/config"
	"lnr/internal/models"
)

func newInfoCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show server, database and command bar info",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				resp, err := client.GetInfo(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}

				_ = writePlain("api_url: %s\n", client.BaseURL())
				_ = writePlain("version: %s\n", resp.Version)
				_ = writePlain("driver: %s\n", resp.Driver)
				_ = writePlain("schema_version: %d\n", resp.SchemaVersion)
				_ = writePlain("interpreter: %s\n", resp.Interpreter)
				_ = writePlain("members: %d\n", resp.MemberCount)
				_ = writePlain("total_tasks: %d\n", resp.TotalTasks)
				for _, status := range models.StatusOrder {
					_ = writePlain("  %s: %d\n", status, resp.TaskCounts[string(status)])
				}
				for status, n := range resp.TaskCounts {
					if !slices.Contains(models.StatusOrder, models.TaskStatus(status)) {
						_ = writePlain("  %s: %d\n", status, n)
					}
				}
				return nil
			})
		},
	}
}
