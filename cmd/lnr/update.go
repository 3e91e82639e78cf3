package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"lnr/internal/api"
	"lnr/internal/board"
	"lnr/internal/config"
	"lnr/internal/models"
)

func newStatusCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "status <TASK-n> <status>",
		Short: "Move a task to another status",
		Args:  requireExactlyArgs(2, "usage: lnr status <TASK-n> <todo|in_progress|in_review|done>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateTask(cmd.Context(), cfg, *jsonOutput, args[0], func(ctx context.Context, b *board.Controller, id string) error {
				return b.SetStatus(ctx, id, args[1])
			})
		},
	}
}

func newPriorityCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "priority <TASK-n> <priority>",
		Short: "Change a task's priority",
		Args:  requireExactlyArgs(2, "usage: lnr priority <TASK-n> <urgent|high|medium|low|none>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateTask(cmd.Context(), cfg, *jsonOutput, args[0], func(ctx context.Context, b *board.Controller, id string) error {
				return b.SetPriority(ctx, id, args[1])
			})
		},
	}
}

func newAssignCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <TASK-n> <member-id|name|none>",
		Short: "Assign or unassign a task",
		Args:  requireAtLeastArgs(2, "usage: lnr assign <TASK-n> <member-id|name|none>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			who := strings.Join(args[1:], " ")
			return mutateTask(cmd.Context(), cfg, *jsonOutput, args[0], func(ctx context.Context, b *board.Controller, id string) error {
				memberID, err := resolveMember(b.Members(), who)
				if err != nil {
					return err
				}
				return b.Assign(ctx, id, memberID)
			})
		},
	}
}

func newRenameCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <TASK-n> <title>",
		Short: "Change a task's title",
		Args:  requireAtLeastArgs(2, "usage: lnr rename <TASK-n> <title>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args[1:], " ")
			return mutateTask(cmd.Context(), cfg, *jsonOutput, args[0], func(ctx context.Context, b *board.Controller, id string) error {
				return b.Rename(ctx, id, title)
			})
		},
	}
}

// mutateTask loads the board, applies mutate to the task with the given
// human-facing id and prints the task as the board now holds it.
func mutateTask(ctx context.Context, cfg *config.Config, jsonOutput bool, taskID string, mutate func(context.Context, *board.Controller, string) error) error {
	return withClient(ctx, cfg, func(client *api.Client) error {
		b := board.New(client, slog.Default())
		if err := b.Refresh(ctx); err != nil {
			return err
		}
		task, ok := b.Find(taskID)
		if !ok {
			return fmt.Errorf("task %s not found", taskID)
		}
		if err := mutate(ctx, b, task.ID); err != nil {
			return err
		}
		task, _ = b.Find(task.TaskID)
		return writeTask(task, jsonOutput)
	})
}

// resolveMember accepts a member id, a case-insensitive name, or "none".
func resolveMember(members []models.TeamMember, who string) (string, error) {
	who = strings.TrimSpace(who)
	if strings.EqualFold(who, "none") || who == "" {
		return "", nil
	}
	for _, member := range members {
		if member.ID == who {
			return member.ID, nil
		}
	}
	for _, member := range members {
		if strings.EqualFold(member.Name, who) {
			return member.ID, nil
		}
	}
	return "", fmt.Errorf("team member %q not found", who)
}
