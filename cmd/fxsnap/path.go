package main

import (
	"fmt"

	"github.com/BadgerOps/fxsnap/internal/engine"
	"github.com/spf13/cobra"
)

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print today's snapshot folder",
		Long: `Print the folder the next run would write to, computed from the current
IST date. Nothing is fetched or created.`,
		Example: `  fxsnap path
  fxsnap path --layout numeric`,
		Args: cobra.NoArgs,
		RunE: pathRun,
	}
}

func pathRun(cmd *cobra.Command, args []string) error {
	if globalCfg == nil {
		return fmt.Errorf("config not loaded")
	}

	archiver, err := engine.NewFromConfig(globalCfg, nil, logger)
	if err != nil {
		return err
	}

	folder := archiver.Plan()
	fmt.Println(folder.Path)
	logger.Debug("planned snapshot", "timestamp", folder.Timestamp)
	return nil
}
