package selection

import (
	"errors"
	"fmt"
	"testing"

	"github.com/theirongolddev/payg/internal/calc"
	"github.com/theirongolddev/payg/internal/catalog"
	"github.com/theirongolddev/payg/internal/model"

	"github.com/shopspring/decimal"
)

func newTestState() *State {
	s := New()
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("u%d", n)
	}
	return s
}

func mustModel(t *testing.T, id string) model.AIModel {
	t.Helper()
	m, err := catalog.Default().Model(id)
	if err != nil {
		t.Fatalf("Model(%q): %v", id, err)
	}
	return m
}

func mustArea(t *testing.T, id string) model.UsageArea {
	t.Helper()
	a, err := catalog.Default().Area(id)
	if err != nil {
		t.Fatalf("Area(%q): %v", id, err)
	}
	return a
}

func TestAddUsage_OnePerModel(t *testing.T) {
	s := newTestState()

	u, err := s.AddUsage(mustModel(t, "gpt4o"), 10, nil)
	if err != nil {
		t.Fatalf("AddUsage: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("usage id = %q, want u1", u.ID)
	}

	if _, err := s.AddUsage(mustModel(t, "gpt4o"), 5, nil); !errors.Is(err, ErrDuplicateModel) {
		t.Fatalf("second AddUsage err = %v, want ErrDuplicateModel", err)
	}
	if got := len(s.Usages()); got != 1 {
		t.Fatalf("usages = %d, want 1", got)
	}

	if _, err := s.AddUsage(mustModel(t, "sora"), 0, nil); !errors.Is(err, ErrInvalidPrompts) {
		t.Fatalf("AddUsage(0) err = %v, want ErrInvalidPrompts", err)
	}
}

func TestNew_GeneratesDistinctIDs(t *testing.T) {
	s := New()
	a, err := s.AddUsage(mustModel(t, "gpt4o"), 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.AddUsage(mustModel(t, "sora"), 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("usage ids %q and %q, want distinct non-empty", a.ID, b.ID)
	}
}

func TestUpdateAndRemoveByID(t *testing.T) {
	s := newTestState()
	cat := catalog.Default()

	u, _ := s.AddUsage(mustModel(t, "gpt4o"), 10, nil)
	other, _ := s.AddUsage(mustModel(t, "dalle3"), 3, nil)

	if err := s.UpdatePromptsPerDay(u.ID, 25); err != nil {
		t.Fatalf("UpdatePromptsPerDay: %v", err)
	}
	if err := s.UpdatePromptsPerDay(u.ID, -1); !errors.Is(err, ErrInvalidPrompts) {
		t.Fatalf("UpdatePromptsPerDay(-1) err = %v, want ErrInvalidPrompts", err)
	}
	if err := s.UpdatePromptsPerDay("missing", 5); !errors.Is(err, ErrUsageNotFound) {
		t.Fatalf("UpdatePromptsPerDay(missing) err = %v, want ErrUsageNotFound", err)
	}

	plus, _ := cat.Subscription("chatgptplus")
	if err := s.UpdateSubscription(u.ID, plus); err != nil {
		t.Fatalf("UpdateSubscription: %v", err)
	}

	got, ok := s.UsageForModel("gpt4o")
	if !ok {
		t.Fatal("UsageForModel(gpt4o) not found")
	}
	if got.PromptsPerDay != 25 {
		t.Fatalf("PromptsPerDay = %d, want 25", got.PromptsPerDay)
	}
	if got.Subscription == nil || got.Subscription.ID != "chatgptplus" {
		t.Fatalf("Subscription = %+v, want chatgptplus", got.Subscription)
	}

	// The stored plan is a copy.
	plus.MonthlyCost = decimal.NewFromInt(1)
	got, _ = s.UsageForModel("gpt4o")
	if !got.Subscription.MonthlyCost.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("stored plan cost = %s, want 20", got.Subscription.MonthlyCost)
	}

	if err := s.UpdateSubscription(u.ID, nil); err != nil {
		t.Fatalf("UpdateSubscription(nil): %v", err)
	}
	got, _ = s.UsageForModel("gpt4o")
	if got.Subscription != nil {
		t.Fatalf("Subscription = %+v, want nil", got.Subscription)
	}

	if err := s.RemoveUsage(u.ID); err != nil {
		t.Fatalf("RemoveUsage: %v", err)
	}
	if err := s.RemoveUsage(u.ID); !errors.Is(err, ErrUsageNotFound) {
		t.Fatalf("second RemoveUsage err = %v, want ErrUsageNotFound", err)
	}
	usages := s.Usages()
	if len(usages) != 1 || usages[0].ID != other.ID {
		t.Fatalf("usages = %+v, want only %s", usages, other.ID)
	}

	// Removing frees the model for re-adding.
	if _, err := s.AddUsage(mustModel(t, "gpt4o"), 4, nil); err != nil {
		t.Fatalf("re-add after remove: %v", err)
	}
}

func TestToggleArea(t *testing.T) {
	s := newTestState()
	w := mustArea(t, "writing")

	if !s.ToggleArea(w) {
		t.Fatal("first toggle reported unselected")
	}
	if !s.HasArea("writing") {
		t.Fatal("writing not selected")
	}
	if s.ToggleArea(w) {
		t.Fatal("second toggle reported selected")
	}
	if len(s.Areas()) != 0 {
		t.Fatalf("areas = %d, want 0", len(s.Areas()))
	}
}

func TestPromptsPerDayBounds(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{0, false},
		{-3, false},
		{1, true},
		{MaxPromptsPerDay, true},
		{MaxPromptsPerDay + 1, false},
		{int(^uint(0) >> 1), false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			s := newTestState()
			u, err := s.AddUsage(mustModel(t, "gpt4o"), tt.n, nil)
			if ok := err == nil; ok != tt.want {
				t.Fatalf("AddUsage(%d) err = %v, want ok=%v", tt.n, err, tt.want)
			}
			if !tt.want && !errors.Is(err, ErrInvalidPrompts) {
				t.Fatalf("AddUsage(%d) err = %v, want ErrInvalidPrompts", tt.n, err)
			}

			if !tt.want {
				u, _ = s.AddUsage(mustModel(t, "gpt4o"), 1, nil)
			}
			err = s.UpdatePromptsPerDay(u.ID, tt.n)
			if ok := err == nil; ok != tt.want {
				t.Fatalf("UpdatePromptsPerDay(%d) err = %v, want ok=%v", tt.n, err, tt.want)
			}
		})
	}
}

func TestCompute_RequiresAreasAndUsages(t *testing.T) {
	s := newTestState()
	if _, err := s.Compute(calc.Options{}); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("empty Compute err = %v, want ErrIncomplete", err)
	}

	s.SelectArea(mustArea(t, "writing"))
	if _, err := s.Compute(calc.Options{}); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("areas-only Compute err = %v, want ErrIncomplete", err)
	}

	plus, _ := catalog.Default().Subscription("chatgptplus")
	if _, err := s.AddUsage(mustModel(t, "gpt4o"), 10, plus); err != nil {
		t.Fatal(err)
	}
	res, err := s.Compute(calc.Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !res.PayAsYouGoCost.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("PayAsYouGoCost = %s, want 6", res.PayAsYouGoCost)
	}
	if !res.Savings.SavingsPercentage.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("SavingsPercentage = %s, want 70", res.Savings.SavingsPercentage)
	}
}
