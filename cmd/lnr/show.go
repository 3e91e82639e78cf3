package main

import (
	"github.com/spf13/cobra"

	"lnr/internal/api"
	"lnr/internal/config"
)

func newShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var withComments bool

	cmd := &cobra.Command{
		Use:   "show <TASK-n>",
		Short: "Show task details",
		Args:  requireExactlyArgs(1, "task id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				task, err := client.GetTask(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !withComments {
					return writeTask(task, *jsonOutput)
				}

				comments, err := client.ListComments(cmd.Context(), task.ID)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(struct {
						api.TaskResponse
						Comments []api.CommentResponse `json:"comments"`
					}{task, comments})
				}
				if err := writeTask(task, false); err != nil {
					return err
				}
				if len(comments) > 0 {
					_ = writePlain("comments:\n")
				}
				return writeComments(comments)
			})
		},
	}

	cmd.Flags().BoolVarP(&withComments, "comments", "c", false, "include comments")
	return cmd
}
