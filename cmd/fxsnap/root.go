package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BadgerOps/fxsnap/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgPath    string
	baseDir    string
	layoutFlag string
	logLevel   string
	logFormat  string
	strictFlag bool
	globalCfg  *config.Config
	logger     *slog.Logger = slog.Default()
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fxsnap",
		Short: "Archive daily currency exchange rate documents",
		Long: `fxsnap downloads the daily currency exchange rate documents published by
HDFC, AXIS and ICICI and stores them byte for byte in a date-partitioned
folder tree (Indian Standard Time), together with a README.txt listing what
was saved.

Run it once a day from cron or a systemd timer. Running without a
subcommand performs a single archival run.`,
		Example: `  fxsnap
  fxsnap run --layout numeric
  fxsnap run --strict --base-dir /srv/rates
  fxsnap sources
  fxsnap path
  fxsnap config show`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runRun,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(logLevel)

			if shouldSkipConfig(cmd.Name()) {
				return nil
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			globalCfg = cfg

			// Config may carry its own level; an explicit flag still wins.
			if !cmd.Flags().Changed("log-level") {
				setupLogging(globalCfg.LogLevel)
			}
			logger.Debug("config loaded", "path", cfgPath, "base_dir", globalCfg.Output.BaseDir, "layout", globalCfg.Output.Layout)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (auto-discovered if not specified)")
	cmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "override snapshot base directory")
	cmd.PersistentFlags().StringVar(&layoutFlag, "layout", "", "folder layout: dated or numeric")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")
	cmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "exit non-zero when any source fails")

	cmd.AddCommand(
		newRunCmd(),
		newSourcesCmd(),
		newPathCmd(),
		newValidateCmd(),
		newConfigCmd(),
	)

	return cmd
}

// loadConfig layers defaults, config file, .env, FXSNAP_* variables and flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfgPath == "" {
		if found, err := config.FindConfigFile(); err == nil {
			cfgPath = found
		} else {
			logger.Debug("config file not found, using defaults", "error", err)
		}
	}

	cfg := config.DefaultConfig()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if layoutFlag != "" {
		cfg.SetLayout(layoutFlag)
	}
	if baseDir != "" {
		cfg.Output.BaseDir = baseDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = strings.ToLower(logLevel)
	}
	if strictFlag {
		cfg.Run.Strict = true
	}

	return cfg, nil
}

// setupLogging initializes the slog logger on stderr
func setupLogging(levelName string) {
	var level slog.Level
	switch strings.ToLower(levelName) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if strings.ToLower(logFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// shouldSkipConfig checks if a command should skip config loading
func shouldSkipConfig(cmdName string) bool {
	skipConfigCmds := map[string]bool{
		"help":       true,
		"version":    true,
		"completion": true,
	}
	return skipConfigCmds[cmdName]
}
