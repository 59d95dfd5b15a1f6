package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"playcheck/internal/config"
	"playcheck/internal/logging"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:     "playcheck",
	Short:   "Can your PC run it? Compares Steam system requirements with your hardware",
	Version: Version,
	Long: `PlayCheck looks up a game's system requirements on the Steam store and asks
Gemini to compare them with the hardware you describe, suggesting Low, Medium
or High settings.

Run without a subcommand to start the interactive chat.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file overlaying the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (defaults to LOG_LEVEL)")
}

// loadConfig reads .env, the environment and the optional config file, then
// builds the logger from the resulting level.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)
	return cfg, logger, nil
}
