package main

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"lnr/internal/api"
	"lnr/internal/command"
	"lnr/internal/config"
	"lnr/internal/format"
)

func newDoCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		action    string
		arguments string
	)

	cmd := &cobra.Command{
		Use:   `do "<command>"`,
		Short: "Run a natural-language command, or a structured action with --action",
		Example: `  lnr do "create a task to fix the login bug and assign it to Sarah"
  lnr do --action update_status --args '{"task_id":"TASK-3","status":"done"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if action != "" {
				return runLocalAction(cmd, cfg, action, arguments, *jsonOutput)
			}
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return errors.New("command text is required")
			}
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				resp, err := client.ParseCommand(cmd.Context(), text)
				if err != nil {
					return err
				}
				return writeCommandResult(resp, *jsonOutput)
			})
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "run this action against the local database without a model")
	cmd.Flags().StringVar(&arguments, "args", "{}", "JSON arguments for --action")
	return cmd
}

// runLocalAction decodes a structured action and executes it directly
// against the configured store.
func runLocalAction(cmd *cobra.Command, cfg *config.Config, name, arguments string, jsonOutput bool) error {
	action, err := command.DecodeAction(name, arguments)
	if err != nil {
		return err
	}

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	executor := command.NewExecutor(st, slog.Default())
	return writeCommandResult(executor.Execute(cmd.Context(), action), jsonOutput)
}

func writeCommandResult(resp api.CommandResponse, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(resp)
	}
	if !resp.Success {
		return errors.New(resp.Message)
	}
	return writePlain("%s\n", format.CommandResult(resp))
}
