package main

import (
	"github.com/spf13/cobra"

	"lnr/internal/api"
	"lnr/internal/config"
	"lnr/internal/format"
)

func newMembersCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List team members",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				members, err := client.ListMembers(cmd.Context())
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
			})
		},
	}
}
