package main

import (
	"github.com/spf13/cobra"

	"lnr/internal/config"
	"lnr/internal/format"
	"lnr/internal/roster"
)

func newSeedCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert team members from a YAML roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.RosterPath
			if cmd.Flags().Changed("file") {
				path = file
			}
			r, err := roster.Load(path)
			if err != nil {
				return err
			}

			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := roster.Seed(cmd.Context(), st, r); err != nil {
				return err
			}
			members, err := st.ListMembers(cmd.Context())
			if err != nil {
				return err
			}
			if *jsonOutput {
				return writeJSON(members)
			}
			for _, member := range members {
				_ = writePlain("%s\n", format.MemberLine(member))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "roster YAML file (default: configured roster_path or built-in roster)")
	return cmd
}
