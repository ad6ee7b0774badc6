package main

import (
	"fmt"
	"strings"

	"github.com/eppisapiafsl/expo-cli/pkg/config"
	"github.com/eppisapiafsl/expo-cli/pkg/types"
	"github.com/eppisapiafsl/expo-cli/pkg/ui/styles"
	"github.com/spf13/cobra"
)

func newModsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mods",
		Short: MsgModsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.root()
			if err != nil {
				return err
			}
			loaded, err := config.Load(root)
			if err != nil {
				return err
			}
			exp, err := exportConfig(loaded.Config)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			empty := true
			for _, platform := range types.Platforms() {
				names := exp.Mods.Slots(platform)
				if len(names) == 0 {
					continue
				}
				empty = false
				fmt.Fprintln(w, styles.Render("Platform", platform.String()))
				for _, name := range names {
					links := exp.Mods.LinkNames(platform, name)
					fmt.Fprintf(w, "  %s: %s\n", styles.Render("Slot", string(name)), strings.Join(links, " -> "))
				}
			}
			if empty {
				fmt.Fprintln(w, MsgNoMods)
			}
			return nil
		},
	}
}
