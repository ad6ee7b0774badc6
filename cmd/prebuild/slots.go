package main

import (
	"fmt"
	"strings"

	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/eppisapiafsl/expo-cli/pkg/cobrax/topics"
	"github.com/eppisapiafsl/expo-cli/pkg/slots"
	"github.com/spf13/cobra"
)

func newSlotsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: MsgSlotsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer := topics.NewGlamourRenderer()
			renderer.Width = 120
			if opts.noColor || !isTerminal() {
				renderer.Style = glamourstyles.NoTTYStyle
			}
			out, err := renderer.RenderMarkdown(catalogueMarkdown())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// catalogueMarkdown renders the slot catalogue as a markdown table
func catalogueMarkdown() string {
	var b strings.Builder
	b.WriteString("# Slots\n\n")
	b.WriteString("| Platform | Slot | Payload | Path | Required |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, info := range slots.Catalogue() {
		required := "no"
		if info.Required {
			required = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | `%s` | `%s` | %s |\n",
			info.Platform, info.Name, info.Payload, info.Path, required)
	}
	b.WriteString("\n`{name}` is the name of the Xcode project found under `ios/`.\n")
	return b.String()
}
