package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BadgerOps/fxsnap/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage fxsnap configuration. Subcommands allow viewing and modifying
configuration settings.`,
		Example: `  fxsnap config show
  fxsnap config show --layout numeric
  fxsnap config set fetch.retry_attempts 5`,
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the effective configuration in YAML format, with the config
file, environment overrides and command-line flags applied.`,
		Args: cobra.NoArgs,
		RunE: configShowRun,
	}
}

func configShowRun(cmd *cobra.Command, args []string) error {
	log := slog.Default()

	if globalCfg == nil {
		return fmt.Errorf("config not loaded")
	}

	log.Debug("showing configuration")

	data, err := yaml.Marshal(globalCfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Println("Current Configuration:")
	fmt.Println("======================")
	fmt.Println(string(data))

	return nil
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value using dot-notation for nested keys.
Changes are written back to the config file (--config, the discovered file,
or ./fxsnap.yaml when none exists). Environment and flag overrides are not
written.

Keys:
  ` + strings.Join(config.SettableKeys(), "\n  "),
		Example: `  fxsnap config set fetch.retry_attempts 5
  fxsnap config set output.layout numeric`,
		Args: cobra.ExactArgs(2),
		RunE: configSetRun,
	}
}

func configSetRun(cmd *cobra.Command, args []string) error {
	log := slog.Default()
	key, value := args[0], args[1]

	path := cfgPath
	if path == "" {
		path = "fxsnap.yaml"
	}

	// Start from the file alone so overrides from env and flags stay out of it.
	cfg := config.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	log.Info("set configuration", "key", key, "value", value, "path", path)
	fmt.Printf("Set %s = %s in %s\n", key, value, path)

	return nil
}
