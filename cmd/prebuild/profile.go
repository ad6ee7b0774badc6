package main

import (
	"fmt"

	"github.com/eppisapiafsl/expo-cli/pkg/provisioning"
	"github.com/eppisapiafsl/expo-cli/pkg/ui/styles"
	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile FILE",
		Short: MsgProfileShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoded, err := readProfile(args[0])
			if err != nil {
				return err
			}
			team, err := provisioning.ReadAppleTeam(encoded)
			if err != nil {
				return err
			}
			name, err := provisioning.ReadProfileName(encoded)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", styles.Render("Bold", "team id:  "), team.ID)
			fmt.Fprintf(w, "%s %s\n", styles.Render("Bold", "team name:"), team.Name)
			fmt.Fprintf(w, "%s %s\n", styles.Render("Bold", "profile:  "), name)
			return nil
		},
	}
}
