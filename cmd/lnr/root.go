package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lnr/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "lnr",
		Short:         "lnr is a small team task tracker with a natural-language command bar",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newMigrateCmd(cfg, &jsonOutput),
		newSeedCmd(cfg, &jsonOutput),
		newInfoCmd(cfg, &jsonOutput),
		newCreateCmd(cfg, &jsonOutput),
		newListCmd(cfg, &jsonOutput),
		newShowCmd(cfg, &jsonOutput),
		newStatusCmd(cfg, &jsonOutput),
		newPriorityCmd(cfg, &jsonOutput),
		newAssignCmd(cfg, &jsonOutput),
		newRenameCmd(cfg, &jsonOutput),
		newDeleteCmd(cfg),
		newCommentCmd(cfg, &jsonOutput),
		newMembersCmd(cfg, &jsonOutput),
		newDoCmd(cfg, &jsonOutput),
		newConfigCmd(cfg),
	)

	return cmd
}
