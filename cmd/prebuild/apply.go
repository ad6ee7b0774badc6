package main

import (
	"encoding/base64"
	"os"
	"strings"

	"github.com/eppisapiafsl/expo-cli/pkg/config"
	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/logging"
	"github.com/eppisapiafsl/expo-cli/pkg/mods"
	"github.com/eppisapiafsl/expo-cli/pkg/plugins"
	"github.com/eppisapiafsl/expo-cli/pkg/prebuild"
	"github.com/eppisapiafsl/expo-cli/pkg/provisioning"
	"github.com/eppisapiafsl/expo-cli/pkg/types"
	"github.com/eppisapiafsl/expo-cli/pkg/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newApplyCmd(opts *globalOptions) *cobra.Command {
	var (
		platform string
		dryRun   bool
		profile  string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: MsgApplyShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.root()
			if err != nil {
				return err
			}

			format, err := ui.ParseFormat(output)
			if err != nil {
				return err
			}
			renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			runOpts := prebuild.Options{ProjectRoot: root, DryRun: dryRun}
			if platform != "" {
				p, err := types.ParsePlatform(platform)
				if err != nil {
					return err
				}
				runOpts.Platforms = []types.Platform{p}
			}

			loaded, err := config.Load(root)
			if err != nil {
				return err
			}
			cfg := loaded.Config
			if profile != "" {
				if err := applyProfile(&cfg, profile); err != nil {
					return err
				}
			}

			exp, err := exportConfig(cfg)
			if err != nil {
				return err
			}

			result, runErr := prebuild.NewRunner(afero.NewOsFs()).Run(cmd.Context(), exp, runOpts)
			if result != nil {
				if err := renderer.RenderResult(result); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", MsgFlagPlatform)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().StringVar(&profile, "provisioning-profile", "", MsgFlagProfile)
	cmd.Flags().StringVarP(&output, "output", "o", "auto", MsgFlagOutput)
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(ui.Formats, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("platform", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, p := range types.Platforms() {
			out = append(out, p.String())
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// exportConfig runs every plugin of cfg and returns the frozen result
func exportConfig(cfg types.AppConfig) (mods.ExportedConfig, error) {
	exp := mods.ExportedConfig{Config: cfg, Mods: mods.NewModConfig()}
	if err := plugins.Apply(&exp); err != nil {
		return mods.ExportedConfig{}, err
	}
	return exp, nil
}

// applyProfile fills the apple team of cfg from the provisioning profile at
// path unless one is already configured
func applyProfile(cfg *types.AppConfig, path string) error {
	encoded, err := readProfile(path)
	if err != nil {
		return err
	}
	team, err := provisioning.ReadAppleTeam(encoded)
	if err != nil {
		return err
	}

	logger := logging.GetLogger("cli")
	if cfg.IOS.AppleTeamID != "" {
		logger.Debug().Str("configured", cfg.IOS.AppleTeamID).Str("profile", team.ID).Msg("Keeping configured team")
		return nil
	}
	logger.Info().Str("team", team.ID).Str("name", team.Name).Msg("Using team from provisioning profile")
	cfg.IOS.AppleTeamID = team.ID
	return nil
}

// readProfile returns the base64 form of a provisioning profile file, which
// may hold either the raw signed profile or its base64 encoding
func readProfile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(err, errors.ErrFileNotFound, "provisioning profile %s not found", path).
				WithDetail("path", path)
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read provisioning profile %s", path).
			WithDetail("path", path)
	}
	trimmed := strings.TrimSpace(string(data))
	if _, err := base64.StdEncoding.DecodeString(trimmed); err == nil && trimmed != "" {
		return trimmed, nil
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
