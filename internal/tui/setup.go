package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/payg/internal/config"
	"github.com/theirongolddev/payg/internal/model"
	"github.com/theirongolddev/payg/internal/selection"
	"github.com/theirongolddev/payg/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the answers of the setup form.
type setupValues struct {
	prompts string
	mode    string
	theme   string
}

func setupValuesFrom(cfg config.Config) setupValues {
	mode := cfg.General.BucketMode
	if mode == "" {
		mode = string(model.BucketOverwrite)
	}
	return setupValues{
		prompts: strconv.Itoa(cfg.General.DefaultPromptsPerDay),
		mode:    mode,
		theme:   theme.ByName(cfg.Appearance.Theme).Name,
	}
}

// apply writes the answers onto cfg.
func (v setupValues) apply(cfg config.Config) (config.Config, error) {
	n, err := parsePrompts(v.prompts)
	if err != nil {
		return cfg, err
	}
	mode, err := model.ParseBucketMode(v.mode)
	if err != nil {
		return cfg, err
	}
	if !theme.Valid(v.theme) {
		return cfg, fmt.Errorf("unknown theme %q", v.theme)
	}

	cfg.General.DefaultPromptsPerDay = n
	cfg.General.BucketMode = string(mode)
	cfg.Appearance.Theme = v.theme
	return cfg, nil
}

func parsePrompts(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("enter a whole number")
	}
	if err := selection.ValidatePrompts(n); err != nil {
		return 0, err
	}
	return n, nil
}

func validatePrompts(s string) error {
	_, err := parsePrompts(s)
	return err
}

func bucketModeOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Overwrite (last model of a type sets the token total)", string(model.BucketOverwrite)),
		huh.NewOption("Accumulate (token totals sum every model of a type)", string(model.BucketAccumulate)),
	}
}

func newSetupForm(vals *setupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to payg").
				Description("Compare AI subscription plans with pay-as-you-go pricing.\nThese defaults are saved to "+config.Path()+"."),
			huh.NewInput().
				Title("Default prompts per day").
				Description("Used when a model is added without a rate.").
				Value(&vals.prompts).
				Validate(validatePrompts),
			huh.NewSelect[string]().
				Title("Token bucket mode").
				Options(bucketModeOptions()...).
				Value(&vals.mode),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.theme),
		),
	).WithShowHelp(false)
}

// RunSetup runs the setup form in the terminal and returns the updated config.
// The caller saves it.
func RunSetup(cfg config.Config) (config.Config, error) {
	vals := setupValuesFrom(cfg)
	if err := newSetupForm(&vals).Run(); err != nil {
		return cfg, fmt.Errorf("setup: %w", err)
	}
	return vals.apply(cfg)
}
