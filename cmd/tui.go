package cmd

import (
	"fmt"

	"github.com/theirongolddev/payg/internal/config"
	"github.com/theirongolddev/payg/internal/selection"
	"github.com/theirongolddev/payg/internal/tui"
	"github.com/theirongolddev/payg/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiFlags selectionFlags

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive calculator",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	tuiFlags.register(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, cat, err := loadEnvironment()
	if err != nil {
		return err
	}

	// Hex theme colors need true color; fall back to the ANSI theme otherwise.
	profile := termenv.ColorProfile()
	theme.Active = theme.ForProfile(cfg.Appearance.Theme, profile)
	if profile == termenv.TrueColor || profile == termenv.ANSI256 {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}

	var seed *selection.State
	if !tuiFlags.empty() {
		sel, mode, err := tuiFlags.resolve(cfg, cat)
		if err != nil {
			return err
		}
		seed = sel
		cfg.General.BucketMode = string(mode)
	}

	app := tui.NewApp(tui.Options{
		Catalog:   cat,
		Config:    cfg,
		Selection: seed,
		NeedSetup: !config.Exists(),
		Save:      config.SaveDefaults,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
