// Package catalog holds the reference data for usage areas, models and
// subscriptions, and merges user overrides from config.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/theirongolddev/payg/internal/calc"
	"github.com/theirongolddev/payg/internal/config"
	"github.com/theirongolddev/payg/internal/model"

	"github.com/shopspring/decimal"
)

// NoSubscriptionID selects no plan for a model usage.
const NoSubscriptionID = "none"

// Lookup errors, wrapped with the offending ID.
var (
	ErrUnknownArea         = errors.New("unknown usage area")
	ErrUnknownModel        = errors.New("unknown model")
	ErrUnknownSubscription = errors.New("unknown subscription")
)

// Catalog is the set of reference tables a selection draws from.
type Catalog struct {
	Areas         []model.UsageArea    `json:"areas"`
	Models        []model.AIModel      `json:"models"`
	Subscriptions []model.Subscription `json:"subscriptions"`
}

// Default returns a fresh copy of the built-in catalog.
func Default() Catalog {
	return Catalog{
		Areas:         defaultAreas(),
		Models:        defaultModels(),
		Subscriptions: defaultSubscriptions(),
	}
}

// Load returns the built-in catalog with cfg's overrides applied.
func Load(cfg config.Config) (Catalog, error) {
	return Default().Apply(cfg)
}

// Area returns the usage area with the given ID.
func (c Catalog) Area(id string) (model.UsageArea, error) {
	i := slices.IndexFunc(c.Areas, func(a model.UsageArea) bool { return a.ID == id })
	if i < 0 {
		return model.UsageArea{}, fmt.Errorf("%w: %q", ErrUnknownArea, id)
	}
	return c.Areas[i], nil
}

// Model returns the model with the given ID.
func (c Catalog) Model(id string) (model.AIModel, error) {
	i := slices.IndexFunc(c.Models, func(m model.AIModel) bool { return m.ID == id })
	if i < 0 {
		return model.AIModel{}, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return c.Models[i], nil
}

// Subscription returns the plan with the given ID. An empty ID or
// NoSubscriptionID returns nil without error.
func (c Catalog) Subscription(id string) (*model.Subscription, error) {
	if id == "" || id == NoSubscriptionID {
		return nil, nil
	}
	i := slices.IndexFunc(c.Subscriptions, func(s model.Subscription) bool { return s.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubscription, id)
	}
	sub := c.Subscriptions[i]
	return &sub, nil
}

// ModelsOfType returns the models with capability type t.
func (c Catalog) ModelsOfType(t model.CapabilityType) []model.AIModel {
	var out []model.AIModel
	for _, m := range c.Models {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// AreasFor returns the areas that models of type t can serve.
func (c Catalog) AreasFor(t model.CapabilityType) []model.UsageArea {
	return calc.CompatibleAreas(c.Areas, t)
}

// Apply returns a copy of c with config entries and overrides merged in.
// Entries whose ID already exists replace the built-in one; the rest are
// appended. Price overrides are applied last.
func (c Catalog) Apply(cfg config.Config) (Catalog, error) {
	out := Catalog{
		Areas:         slices.Clone(c.Areas),
		Models:        slices.Clone(c.Models),
		Subscriptions: slices.Clone(c.Subscriptions),
	}

	for _, e := range cfg.Catalog.Areas {
		a, err := areaFromEntry(e)
		if err != nil {
			return c, err
		}
		out.Areas = upsert(out.Areas, a, func(x model.UsageArea) string { return x.ID })
	}
	for _, e := range cfg.Catalog.Models {
		m, err := modelFromEntry(e)
		if err != nil {
			return c, err
		}
		out.Models = upsert(out.Models, m, func(x model.AIModel) string { return x.ID })
	}
	for _, e := range cfg.Catalog.Subscriptions {
		s, err := subscriptionFromEntry(e)
		if err != nil {
			return c, err
		}
		out.Subscriptions = upsert(out.Subscriptions, s, func(x model.Subscription) string { return x.ID })
	}

	for id, o := range cfg.Pricing.Overrides {
		i := slices.IndexFunc(out.Models, func(m model.AIModel) bool { return m.ID == id })
		if i < 0 {
			return c, fmt.Errorf("pricing override: %w: %q", ErrUnknownModel, id)
		}
		if o.InputPer1K != nil {
			if *o.InputPer1K < 0 {
				return c, fmt.Errorf("pricing override %q: negative input price", id)
			}
			out.Models[i].InputCostPer1K = decimal.NewFromFloat(*o.InputPer1K)
		}
		if o.OutputPer1K != nil {
			if *o.OutputPer1K < 0 {
				return c, fmt.Errorf("pricing override %q: negative output price", id)
			}
			out.Models[i].OutputCostPer1K = decimal.NewFromFloat(*o.OutputPer1K)
		}
	}

	for id, o := range cfg.Subscriptions.Overrides {
		i := slices.IndexFunc(out.Subscriptions, func(s model.Subscription) bool { return s.ID == id })
		if i < 0 {
			return c, fmt.Errorf("subscription override: %w: %q", ErrUnknownSubscription, id)
		}
		if o.MonthlyCost != nil {
			if *o.MonthlyCost < 0 {
				return c, fmt.Errorf("subscription override %q: negative monthly cost", id)
			}
			out.Subscriptions[i].MonthlyCost = decimal.NewFromFloat(*o.MonthlyCost)
		}
	}

	return out, nil
}

func upsert[T any](list []T, v T, id func(T) string) []T {
	for i := range list {
		if id(list[i]) == id(v) {
			list[i] = v
			return list
		}
	}
	return append(list, v)
}

func areaFromEntry(e config.AreaEntry) (model.UsageArea, error) {
	if e.ID == "" {
		return model.UsageArea{}, errors.New("catalog area: missing id")
	}
	if e.AvgInputTokens < 0 || e.AvgOutputTokens < 0 {
		return model.UsageArea{}, fmt.Errorf("catalog area %q: negative token average", e.ID)
	}
	if len(e.ModelTypes) == 0 {
		return model.UsageArea{}, fmt.Errorf("catalog area %q: no model_types", e.ID)
	}

	types := make([]model.CapabilityType, 0, len(e.ModelTypes))
	for _, s := range e.ModelTypes {
		t, err := model.ParseCapabilityType(s)
		if err != nil {
			return model.UsageArea{}, fmt.Errorf("catalog area %q: %w", e.ID, err)
		}
		types = append(types, t)
	}

	return model.UsageArea{
		ID:              e.ID,
		Name:            nameOr(e.Name, e.ID),
		AvgInputTokens:  e.AvgInputTokens,
		AvgOutputTokens: e.AvgOutputTokens,
		ModelTypes:      types,
	}, nil
}

func modelFromEntry(e config.ModelEntry) (model.AIModel, error) {
	if e.ID == "" {
		return model.AIModel{}, errors.New("catalog model: missing id")
	}
	if e.InputPer1K < 0 || e.OutputPer1K < 0 {
		return model.AIModel{}, fmt.Errorf("catalog model %q: negative price", e.ID)
	}
	t, err := model.ParseCapabilityType(e.Type)
	if err != nil {
		return model.AIModel{}, fmt.Errorf("catalog model %q: %w", e.ID, err)
	}
	return model.AIModel{
		ID:              e.ID,
		Name:            nameOr(e.Name, e.ID),
		InputCostPer1K:  decimal.NewFromFloat(e.InputPer1K),
		OutputCostPer1K: decimal.NewFromFloat(e.OutputPer1K),
		Type:            t,
		Provider:        e.Provider,
	}, nil
}

func subscriptionFromEntry(e config.SubscriptionEntry) (model.Subscription, error) {
	if e.ID == "" || e.ID == NoSubscriptionID {
		return model.Subscription{}, fmt.Errorf("catalog subscription: invalid id %q", e.ID)
	}
	if e.MonthlyCost < 0 {
		return model.Subscription{}, fmt.Errorf("catalog subscription %q: negative monthly cost", e.ID)
	}
	return model.Subscription{
		ID:          e.ID,
		Name:        nameOr(e.Name, e.ID),
		MonthlyCost: decimal.NewFromFloat(e.MonthlyCost),
		Provider:    e.Provider,
	}, nil
}

func nameOr(name, id string) string {
	if name == "" {
		return id
	}
	return name
}
