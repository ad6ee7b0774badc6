package main

import (
	"fmt"
	"path/filepath"

	"github.com/eppisapiafsl/expo-cli/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
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
			data, err := config.Marshal(loaded.Config, format)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if loaded.Source != "" && format != "json" {
				source := loaded.Source
				if rel, err := filepath.Rel(root, source); err == nil {
					source = rel
				}
				fmt.Fprintf(w, MsgConfigSource, source)
			}
			_, err = w.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(config.Formats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
