package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nexconsult/courtcase-api/internal/browser"
	"github.com/nexconsult/courtcase-api/internal/config"
	"github.com/nexconsult/courtcase-api/internal/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "casectl",
	Short: "casectl looks up case status on the court portal from the command line.",
	Long: "casectl looks up case status on the court portal from the command line.\n" +
		"Portal, browser and lookup settings are read from the same environment as the API server.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level written to stderr.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds a stderr logger and a launcher
func setup() (*config.Config, *logrus.Logger, *browser.ChromeLauncher, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.NewWithOutput(logLevel, "text", os.Stderr)
	launcher := browser.NewChromeLauncher(cfg.Browser, cfg.Lookup.ElementTimeout, log)
	return cfg, log, launcher, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
