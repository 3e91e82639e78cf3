package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"lnr/internal/api"
	"lnr/internal/board"
	"lnr/internal/config"
)

func newDeleteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <TASK-n>",
		Short: "Delete a task and its comments",
		Args:  requireExactlyArgs(1, "task id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				b := board.New(client, slog.Default())
				if err := b.Refresh(cmd.Context()); err != nil {
					return err
				}
				task, ok := b.Find(args[0])
				if !ok {
					return fmt.Errorf("task %s not found", args[0])
				}
				if err := b.DeleteTask(cmd.Context(), task.ID); err != nil {
					return err
				}
				return writePlain("deleted %s\n", task.TaskID)
			})
		},
	}
}
