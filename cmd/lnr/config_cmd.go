package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lnr/internal/config"
)

func newConfigCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get or set configuration",
	}

	cmd.AddCommand(newConfigGetCmd(cfg), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print one config value, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, key := range config.AllowedKeys() {
					value, err := cfg.Get(key)
					if err != nil {
						return err
					}
					_ = writePlain("%s = %s\n", key, value)
				}
				return nil
			}

			key := args[0]
			if !config.IsAllowedKey(key) {
				return fmt.Errorf("unknown key: %s (allowed: %s)", key, strings.Join(config.AllowedKeys(), ", "))
			}
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			return writePlain("%s\n", value)
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var project bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value in the user config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pathFn := config.GlobalPath
			if project {
				pathFn = config.ProjectPath
			}
			path, err := pathFn()
			if err != nil {
				return err
			}
			if err := config.SetKey(path, args[0], args[1]); err != nil {
				return err
			}
			return writePlain("%s written to %s\n", args[0], path)
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "write ./.lnr.toml instead (read only with LNR_TRUST_PROJECT_CONFIG=true)")
	return cmd
}
