// Package cmd implements the payg CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/theirongolddev/payg/internal/catalog"
	"github.com/theirongolddev/payg/internal/config"
	"github.com/theirongolddev/payg/internal/tui/theme"

	"github.com/spf13/cobra"
)

var (
	flagMode    string
	flagJSON    bool
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "payg",
	Short: "Compare AI subscriptions with pay-as-you-go pricing",
	Long: "Estimate the monthly pay-as-you-go cost of the AI models you use and\n" +
		"compare it with what you pay for subscriptions.",
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE:              runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", "", "Token bucket mode: overwrite or accumulate (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print machine-readable JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output")
}

func setupLogging(_ *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if e, err := config.ReadEnv(); err == nil {
		if err := level.UnmarshalText([]byte(strings.TrimSpace(e.LogLevel))); err != nil {
			level = slog.LevelInfo
		}
	}
	switch {
	case flagVerbose:
		level = slog.LevelDebug
	case flagQuiet:
		level = slog.LevelWarn
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadEnvironment is the shared config and catalog path used by all commands.
func loadEnvironment() (config.Config, catalog.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, catalog.Catalog{}, err
	}
	theme.SetActive(cfg.Appearance.Theme)

	cat, err := catalog.Load(cfg)
	if err != nil {
		return cfg, catalog.Catalog{}, fmt.Errorf("catalog overrides in %s: %w", config.Path(), err)
	}
	slog.Debug("catalog loaded",
		"areas", len(cat.Areas),
		"models", len(cat.Models),
		"subscriptions", len(cat.Subscriptions),
		"config", config.Path(),
	)
	return cfg, cat, nil
}
