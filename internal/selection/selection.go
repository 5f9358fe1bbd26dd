// Package selection holds the mutable session state a calculation runs on:
// the chosen usage areas and the model usages with their rates and plans.
// A State is owned by one session and is not safe for concurrent use.
package selection

import (
	"errors"
	"fmt"
	"slices"

	"github.com/theirongolddev/payg/internal/calc"
	"github.com/theirongolddev/payg/internal/model"

	"github.com/google/uuid"
)

// DefaultPromptsPerDay is used when a model is added without a rate.
const DefaultPromptsPerDay = 10

// MaxPromptsPerDay bounds a usage rate so monthly volumes stay well inside
// int64 and decimal token math.
const MaxPromptsPerDay = 1_000_000

// Selection errors.
var (
	ErrDuplicateModel = errors.New("model already selected")
	ErrUsageNotFound  = errors.New("model usage not found")
	ErrInvalidPrompts = errors.New("prompts per day must be between 1 and 1000000")
	ErrIncomplete     = errors.New("select at least one usage area and one model")
)

// State is the set of selected areas and model usages.
type State struct {
	areas  []model.UsageArea
	usages []model.ModelUsage
	newID  func() string
}

// New returns an empty selection.
func New() *State {
	return &State{newID: uuid.NewString}
}

// Areas returns a copy of the selected areas in selection order.
func (s *State) Areas() []model.UsageArea {
	return slices.Clone(s.areas)
}

// Usages returns a copy of the model usages in insertion order.
func (s *State) Usages() []model.ModelUsage {
	return slices.Clone(s.usages)
}

// HasArea reports whether the area with id is selected.
func (s *State) HasArea(id string) bool {
	return s.areaIndex(id) >= 0
}

// SelectArea adds a to the selection if it is not already there.
func (s *State) SelectArea(a model.UsageArea) {
	if s.HasArea(a.ID) {
		return
	}
	s.areas = append(s.areas, a)
}

// ToggleArea selects a if unselected and deselects it otherwise. It returns
// whether a is selected afterwards.
func (s *State) ToggleArea(a model.UsageArea) bool {
	if i := s.areaIndex(a.ID); i >= 0 {
		s.areas = slices.Delete(s.areas, i, i+1)
		return false
	}
	s.areas = append(s.areas, a)
	return true
}

// AddUsage binds m to a prompt rate and optional plan. A model can be added
// once per selection.
func (s *State) AddUsage(m model.AIModel, promptsPerDay int, sub *model.Subscription) (model.ModelUsage, error) {
	if err := ValidatePrompts(promptsPerDay); err != nil {
		return model.ModelUsage{}, err
	}
	if s.HasModel(m.ID) {
		return model.ModelUsage{}, fmt.Errorf("%w: %q", ErrDuplicateModel, m.ID)
	}

	u := model.ModelUsage{
		ID:            s.newID(),
		Model:         m,
		PromptsPerDay: promptsPerDay,
		Subscription:  cloneSub(sub),
	}
	s.usages = append(s.usages, u)
	return u, nil
}

// HasModel reports whether a usage already binds the model with id.
func (s *State) HasModel(id string) bool {
	return slices.ContainsFunc(s.usages, func(u model.ModelUsage) bool { return u.Model.ID == id })
}

// UsageForModel returns the usage bound to model id.
func (s *State) UsageForModel(id string) (model.ModelUsage, bool) {
	i := slices.IndexFunc(s.usages, func(u model.ModelUsage) bool { return u.Model.ID == id })
	if i < 0 {
		return model.ModelUsage{}, false
	}
	return s.usages[i], true
}

// RemoveUsage deletes the usage with the given ID.
func (s *State) RemoveUsage(id string) error {
	i, err := s.usageIndex(id)
	if err != nil {
		return err
	}
	s.usages = slices.Delete(s.usages, i, i+1)
	return nil
}

// UpdatePromptsPerDay changes the prompt rate of a usage.
func (s *State) UpdatePromptsPerDay(id string, promptsPerDay int) error {
	if err := ValidatePrompts(promptsPerDay); err != nil {
		return err
	}
	i, err := s.usageIndex(id)
	if err != nil {
		return err
	}
	s.usages[i].PromptsPerDay = promptsPerDay
	return nil
}

// UpdateSubscription changes the plan of a usage; nil clears it.
func (s *State) UpdateSubscription(id string, sub *model.Subscription) error {
	i, err := s.usageIndex(id)
	if err != nil {
		return err
	}
	s.usages[i].Subscription = cloneSub(sub)
	return nil
}

// Ready reports whether there is enough selected to calculate.
func (s *State) Ready() bool {
	return len(s.areas) > 0 && len(s.usages) > 0
}

// Compute runs a full calculation over the current selection.
func (s *State) Compute(opts calc.Options) (model.Result, error) {
	if !s.Ready() {
		return model.Result{}, ErrIncomplete
	}
	return calc.Compute(s.Areas(), s.Usages(), opts), nil
}

// ValidatePrompts checks that n is in [1, MaxPromptsPerDay].
func ValidatePrompts(n int) error {
	if n <= 0 || n > MaxPromptsPerDay {
		return fmt.Errorf("%w: %d", ErrInvalidPrompts, n)
	}
	return nil
}

func (s *State) areaIndex(id string) int {
	return slices.IndexFunc(s.areas, func(a model.UsageArea) bool { return a.ID == id })
}

func (s *State) usageIndex(id string) (int, error) {
	i := slices.IndexFunc(s.usages, func(u model.ModelUsage) bool { return u.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", ErrUsageNotFound, id)
	}
	return i, nil
}

func cloneSub(sub *model.Subscription) *model.Subscription {
	if sub == nil {
		return nil
	}
	c := *sub
	return &c
}
