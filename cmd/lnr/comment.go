package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lnr/internal/api"
	"lnr/internal/board"
	"lnr/internal/config"
	"lnr/internal/format"
)

func newCommentCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "List, add or remove task comments",
	}
	cmd.AddCommand(
		newCommentListCmd(cfg, jsonOutput),
		newCommentAddCmd(cfg, jsonOutput),
		newCommentRemoveCmd(cfg),
	)
	return cmd
}

func newCommentListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list <TASK-n>",
		Short: "List comments on a task, oldest first",
		Args:  requireExactlyArgs(1, "task id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				task, err := client.GetTask(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				comments, err := client.ListComments(cmd.Context(), task.ID)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(comments)
				}
				return writeComments(comments)
			})
		},
	}
}

func newCommentAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "add <TASK-n> <content>",
		Short: "Add a comment to a task",
		Args:  requireAtLeastArgs(2, "usage: lnr comment add <TASK-n> <content>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(author) == "" {
				author = os.Getenv("USER")
			}
			if strings.TrimSpace(author) == "" {
				return fmt.Errorf("--author is required")
			}
			content := strings.Join(args[1:], " ")

			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				task, err := client.GetTask(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				b := board.New(client, slog.Default())
				if err := b.Open(cmd.Context(), task.ID); err != nil {
					return err
				}
				comment, err := b.AddComment(cmd.Context(), author, content)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(comment)
				}
				return writePlain("%s\n", format.CommentLine(comment))
			})
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "comment author (default: $USER)")
	return cmd
}

func newCommentRemoveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <comment-id>",
		Short: "Remove a comment",
		Args:  requireExactlyArgs(1, "comment id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				if err := client.DeleteComment(cmd.Context(), args[0]); err != nil {
					return err
				}
				return writePlain("removed %s\n", args[0])
			})
		},
	}
}
