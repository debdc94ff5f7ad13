package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/datashed/datashed/internal/config"
	"github.com/datashed/datashed/internal/output"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user settings",
		Long: `Manage the per-user settings file.

Settings are CLI defaults that apply to every datashed on this machine:
  - num_jobs    worker threads for indexing (0 = one per CPU)
  - log_level   level of --verbose and --debug logging
  - no_color    disable styled output

Precedence (lowest to highest):
  1. Built-in defaults
  2. Settings file (~/.config/datashed/settings.yaml)
  3. Environment variables (DATASHED_NUM_JOBS, DATASHED_LOG_LEVEL, NO_COLOR)
  4. Command-line flags`,
		Example: `  # Create the settings file with defaults
  datashed config init

  # Show effective settings
  datashed config show --json

  # Print the settings file path
  datashed config path`,
	}

	cmd.AddCommand(newConfigInitCmd(g))
	cmd.AddCommand(newConfigShowCmd(g))
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd(g *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the user settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, g, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing settings with defaults")

	return cmd
}

func newConfigShowCmd(g *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, g, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the user settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), config.SettingsPath())
			return nil
		},
	}
}

func runConfigInit(cmd *cobra.Command, g *globalOptions, force bool) error {
	out := output.New(cmd.OutOrStdout(), g.noColor())
	path := config.SettingsPath()

	if _, err := os.Stat(path); err == nil && !force {
		out.Warning("User settings already exist")
		out.Field("Location", path)
		out.Hint("Use --force to reset them to defaults")
		return nil
	}

	if err := config.DefaultSettings().WriteYAML(path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	out.Success("Created user settings")
	out.Field("Location", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, g *globalOptions, jsonOutput bool) error {
	settings := g.settings
	if settings == nil {
		var err error
		if settings, err = config.LoadSettings(); err != nil {
			return err
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(settings)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	out := output.New(cmd.OutOrStdout(), g.noColor())
	out.Field("Source", config.SettingsPath())
	out.Block(string(data))
	return nil
}
