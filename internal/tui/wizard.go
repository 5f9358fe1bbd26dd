package tui

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/payg/internal/catalog"
	"github.com/theirongolddev/payg/internal/config"
	"github.com/theirongolddev/payg/internal/model"
	"github.com/theirongolddev/payg/internal/scenario"
	"github.com/theirongolddev/payg/internal/selection"

	"github.com/charmbracelet/huh"
)

// wizardValues holds the answers of the wizard forms.
type wizardValues struct {
	areas  []string
	models []string
	mode   string
	// Keyed by model ID.
	prompts       map[string]*string
	subscriptions map[string]*string
}

func newWizardValues(cfg config.Config) *wizardValues {
	mode := cfg.General.BucketMode
	if mode == "" {
		mode = string(model.BucketOverwrite)
	}
	return &wizardValues{
		mode:          mode,
		prompts:       map[string]*string{},
		subscriptions: map[string]*string{},
	}
}

func areaOptions(cat catalog.Catalog) []huh.Option[string] {
	opts := make([]huh.Option[string], len(cat.Areas))
	for i, a := range cat.Areas {
		opts[i] = huh.NewOption(fmt.Sprintf("%s (%d in / %d out tokens)", a.Name, a.AvgInputTokens, a.AvgOutputTokens), a.ID)
	}
	return opts
}

// modelOptions lists every model, marking those no selected area can serve.
func modelOptions(cat catalog.Catalog, areaIDs []string) []huh.Option[string] {
	var areas []model.UsageArea
	for _, id := range areaIDs {
		if a, err := cat.Area(id); err == nil {
			areas = append(areas, a)
		}
	}

	opts := make([]huh.Option[string], len(cat.Models))
	for i, m := range cat.Models {
		label := fmt.Sprintf("%s · %s · %s", m.Name, m.Provider, m.Type.Label())
		if !servesAny(areas, m.Type) {
			label += " (no matching area)"
		}
		opts[i] = huh.NewOption(label, m.ID)
	}
	return opts
}

func subscriptionOptions(cat catalog.Catalog) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("No subscription", catalog.NoSubscriptionID)}
	for _, s := range cat.Subscriptions {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s ($%s/month)", s.Name, s.MonthlyCost.StringFixed(2)), s.ID))
	}
	return opts
}

func atLeastOne(what string) func([]string) error {
	return func(v []string) error {
		if len(v) == 0 {
			return fmt.Errorf("select at least one %s", what)
		}
		return nil
	}
}

func newSelectionForm(cat catalog.Catalog, vals *wizardValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Usage areas").
				Description("What do you use AI for?").
				Options(areaOptions(cat)...).
				Value(&vals.areas).
				Validate(atLeastOne("usage area")),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Models").
				OptionsFunc(func() []huh.Option[string] {
					return modelOptions(cat, vals.areas)
				}, &vals.areas).
				Value(&vals.models).
				Validate(atLeastOne("model")),
			huh.NewSelect[string]().
				Title("Token bucket mode").
				Options(bucketModeOptions()...).
				Value(&vals.mode),
		),
	)
}

func newUsageForm(cat catalog.Catalog, vals *wizardValues, defaultPrompts int) *huh.Form {
	var groups []*huh.Group
	for _, id := range vals.models {
		m, err := cat.Model(id)
		if err != nil {
			continue
		}
		prompts := fmt.Sprint(defaultPrompts)
		sub := catalog.NoSubscriptionID
		vals.prompts[id] = &prompts
		vals.subscriptions[id] = &sub

		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title(m.Name+": prompts per day").
				Value(&prompts).
				Validate(validatePrompts),
			huh.NewSelect[string]().
				Title(m.Name+": current subscription").
				Options(subscriptionOptions(cat)...).
				Value(&sub),
		))
	}
	return huh.NewForm(groups...)
}

// scenario converts the answers into a scenario file.
func (v *wizardValues) scenario() (scenario.File, error) {
	f := scenario.File{Mode: v.mode, Areas: v.areas}
	for _, id := range v.models {
		spec := scenario.UsageSpec{Model: id}
		if p, ok := v.prompts[id]; ok {
			n, err := parsePrompts(*p)
			if err != nil {
				return scenario.File{}, fmt.Errorf("model %q: %w", id, err)
			}
			spec.PromptsPerDay = n
		}
		if s, ok := v.subscriptions[id]; ok {
			spec.Subscription = *s
		}
		f.Usages = append(f.Usages, spec)
	}
	return f, nil
}

// ErrWizardAborted is returned when the user leaves the wizard early.
var ErrWizardAborted = errors.New("wizard aborted")

// RunWizard asks for areas, models and per-model rates and plans, and
// returns the resulting selection and bucket mode.
func RunWizard(cat catalog.Catalog, cfg config.Config) (*selection.State, model.BucketMode, error) {
	vals := newWizardValues(cfg)

	if err := newSelectionForm(cat, vals).Run(); err != nil {
		return nil, "", wizardErr(err)
	}
	if err := newUsageForm(cat, vals, cfg.General.DefaultPromptsPerDay).Run(); err != nil {
		return nil, "", wizardErr(err)
	}

	f, err := vals.scenario()
	if err != nil {
		return nil, "", err
	}
	mode, err := f.BucketMode(model.BucketOverwrite)
	if err != nil {
		return nil, "", err
	}
	sel, err := f.Resolve(cat, cfg.General.DefaultPromptsPerDay)
	if err != nil {
		return nil, "", err
	}
	return sel, mode, nil
}

func wizardErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrWizardAborted
	}
	return fmt.Errorf("wizard: %w", err)
}
