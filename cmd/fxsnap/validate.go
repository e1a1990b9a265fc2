package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validate the configuration after applying the config file, .env,
FXSNAP_* environment variables and command-line flags. Exits non-zero on
the first problem found.`,
		Example: `  fxsnap validate
  fxsnap validate --config /etc/fxsnap/fxsnap.yaml`,
		Args: cobra.NoArgs,
		RunE: validateRun,
	}
}

func validateRun(cmd *cobra.Command, args []string) error {
	if globalCfg == nil {
		return fmt.Errorf("config not loaded")
	}

	if err := globalCfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fmt.Printf("Configuration OK: %d sources, layout %s, base dir %q\n",
		len(globalCfg.Sources), globalCfg.Output.Layout, globalCfg.Output.BaseDir)
	return nil
}
