package main

import (
	"context"
	"fmt"
	"os"

	"github.com/BadgerOps/fxsnap/internal/engine"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Archive today's rate documents",
		Long: `Fetch every configured source and store it in today's snapshot folder.

The run will:
  1. Create the snapshot folder for the current IST date
  2. Fetch each source in order, retrying failures with linear backoff
  3. Save each document as <name>.<ext>, overwriting earlier copies
  4. Write README.txt listing the files that were saved

A failed source is reported and skipped. The exit code stays 0 unless
--strict is set (or run.strict in the config file).`,
		Example: `  fxsnap run
  fxsnap run --layout numeric --base-dir "data/Currency rate PDF DATA"
  fxsnap run --strict`,
		Args: cobra.NoArgs,
		RunE: runRun,
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	if globalCfg == nil {
		return fmt.Errorf("config not loaded")
	}
	if err := globalCfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	archiver, err := engine.NewFromConfig(globalCfg, os.Stdout, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize archiver: %w", err)
	}

	report, err := archiver.Run(context.Background())
	if err != nil {
		return fmt.Errorf("archival run failed: %w", err)
	}

	failed := report.Failed()
	if len(failed) > 0 && globalCfg.Run.Strict {
		return fmt.Errorf("%d of %d sources failed", len(failed), len(report.Results))
	}
	return nil
}
