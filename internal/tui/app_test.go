package tui

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/payg/internal/catalog"
	"github.com/theirongolddev/payg/internal/config"
	"github.com/theirongolddev/payg/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
)

func newTestApp(t *testing.T) App {
	t.Helper()
	return NewApp(Options{Catalog: catalog.Default(), Config: config.DefaultConfig()})
}

func press(t *testing.T, a App, keys ...tea.KeyMsg) App {
	t.Helper()
	var m tea.Model = a
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	app, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T", m)
	}
	return app
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func TestApp_ComputesAfterAreaAndModel(t *testing.T) {
	a := newTestApp(t)
	if _, ok := a.Result(); ok {
		t.Fatal("empty selection produced a result")
	}

	// Writing is the first area and GPT-4o the first model.
	a = press(t, a, enter, tab, enter)

	res, ok := a.Result()
	if !ok {
		t.Fatal("no result after selecting area and model")
	}
	// 10 prompts/day -> 300 prompts, 120,000 in and 360,000 out tokens.
	if want := decimal.RequireFromString("6"); !res.PayAsYouGoCost.Equal(want) {
		t.Fatalf("PayAsYouGoCost = %s, want 6", res.PayAsYouGoCost)
	}
	if res.TotalMonthlyPrompts() != 300 {
		t.Fatalf("monthly prompts = %d, want 300", res.TotalMonthlyPrompts())
	}
}

func TestApp_PromptsAndSubscriptionKeys(t *testing.T) {
	a := press(t, newTestApp(t), enter, tab, enter)

	a = press(t, a, runes("+"), runes("]"))
	u, ok := a.sel.UsageForModel("gpt4o")
	if !ok || u.PromptsPerDay != 21 {
		t.Fatalf("prompts = %d, want 21", u.PromptsPerDay)
	}

	for range 5 {
		a = press(t, a, runes("["))
	}
	u, _ = a.sel.UsageForModel("gpt4o")
	if u.PromptsPerDay != 1 {
		t.Fatalf("prompts = %d, want clamp at 1", u.PromptsPerDay)
	}

	a = press(t, a, runes("s"))
	u, _ = a.sel.UsageForModel("gpt4o")
	if u.Subscription == nil || u.Subscription.ID != "chatgptplus" {
		t.Fatalf("subscription = %+v, want chatgptplus", u.Subscription)
	}
	res, _ := a.Result()
	if !res.SubscriptionCost.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("SubscriptionCost = %s, want 20", res.SubscriptionCost)
	}

	// Cycling past the last plan returns to none.
	for range len(a.cat.Subscriptions) {
		a = press(t, a, runes("s"))
	}
	u, _ = a.sel.UsageForModel("gpt4o")
	if u.Subscription != nil {
		t.Fatalf("subscription = %+v, want none after full cycle", u.Subscription)
	}
}

func TestApp_ToggleRemovesModelAndArea(t *testing.T) {
	a := press(t, newTestApp(t), enter, tab, enter)
	a = press(t, a, enter)
	if a.sel.HasModel("gpt4o") {
		t.Fatal("second enter did not remove model")
	}
	if _, ok := a.Result(); ok {
		t.Fatal("result kept after removing last model")
	}

	a = press(t, a, tab, enter)
	if a.sel.HasArea("writing") {
		t.Fatal("second enter did not deselect area")
	}
}

func TestApp_ModeToggleRecomputes(t *testing.T) {
	// Two text models on writing: overwrite keeps the last, accumulate sums.
	a := press(t, newTestApp(t), enter, tab, enter, down, enter)

	res, _ := a.Result()
	if res.Mode != model.BucketOverwrite {
		t.Fatalf("mode = %s, want overwrite", res.Mode)
	}
	overwrite := res.Tokens.Get(model.TextToText).Total()

	a = press(t, a, runes("m"))
	res, _ = a.Result()
	if res.Mode != model.BucketAccumulate {
		t.Fatalf("mode = %s, want accumulate", res.Mode)
	}
	accumulate := res.Tokens.Get(model.TextToText).Total()

	if !accumulate.GreaterThan(overwrite) {
		t.Fatalf("accumulate %s should exceed overwrite %s", accumulate, overwrite)
	}
}

func TestApp_ResetAndQuit(t *testing.T) {
	a := press(t, newTestApp(t), enter, tab, enter, runes("x"))
	if len(a.sel.Usages()) != 0 || len(a.sel.Areas()) != 0 {
		t.Fatal("x did not clear the selection")
	}

	_, cmd := a.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}

func TestApp_ViewShowsTotals(t *testing.T) {
	a := press(t, newTestApp(t), enter, tab, enter)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	view := ansi.Strip(m.View())
	for _, want := range []string{"Usage areas", "Models", "$6.00", "GPT-4o"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}

	m, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	if !strings.Contains(ansi.Strip(m.View()), "too narrow") {
		t.Fatal("narrow terminal not reported")
	}
}

func TestSetupValues_Apply(t *testing.T) {
	cfg := config.DefaultConfig()

	vals := setupValuesFrom(cfg)
	if vals.prompts != "10" || vals.mode != "overwrite" || vals.theme != "flexoki-dark" {
		t.Fatalf("setupValuesFrom = %+v", vals)
	}

	vals = setupValues{prompts: " 25 ", mode: "accumulate", theme: "terminal"}
	got, err := vals.apply(cfg)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.General.DefaultPromptsPerDay != 25 || got.General.BucketMode != "accumulate" || got.Appearance.Theme != "terminal" {
		t.Fatalf("apply = %+v", got.General)
	}

	for _, bad := range []setupValues{
		{prompts: "0", mode: "overwrite", theme: "terminal"},
		{prompts: "ten", mode: "overwrite", theme: "terminal"},
		{prompts: "5", mode: "sideways", theme: "terminal"},
		{prompts: "5", mode: "overwrite", theme: "solarized"},
	} {
		if _, err := bad.apply(cfg); err == nil {
			t.Fatalf("apply(%+v) succeeded", bad)
		}
	}
}

func TestApp_FinishSetupSaves(t *testing.T) {
	var saved config.Config
	a := NewApp(Options{
		Catalog:   catalog.Default(),
		Config:    config.DefaultConfig(),
		NeedSetup: true,
		Save: func(c config.Config) error {
			saved = c
			return nil
		},
	})
	if a.setupForm == nil {
		t.Fatal("setup form not created")
	}

	*a.setupVals = setupValues{prompts: "30", mode: "accumulate", theme: "flexoki-dark"}
	a.finishSetup()

	if a.needSetup || a.setupForm != nil {
		t.Fatal("setup still active")
	}
	if saved.General.DefaultPromptsPerDay != 30 {
		t.Fatalf("saved prompts = %d, want 30", saved.General.DefaultPromptsPerDay)
	}
	if a.defaultPrompts != 30 || a.mode != model.BucketAccumulate {
		t.Fatalf("app not updated: prompts=%d mode=%s", a.defaultPrompts, a.mode)
	}

	failing := NewApp(Options{
		Catalog:   catalog.Default(),
		Config:    config.DefaultConfig(),
		NeedSetup: true,
		Save:      func(config.Config) error { return errors.New("disk full") },
	})
	*failing.setupVals = setupValues{prompts: "30", mode: "overwrite", theme: "flexoki-dark"}
	failing.finishSetup()
	if failing.err == nil {
		t.Fatal("save error not surfaced")
	}
}

func TestWizardValues_Scenario(t *testing.T) {
	vals := newWizardValues(config.DefaultConfig())
	vals.areas = []string{"writing", "graphics"}
	vals.models = []string{"gpt4o", "dalle3"}
	p1, p2 := "20", "5"
	s1, s2 := "chatgptplus", catalog.NoSubscriptionID
	vals.prompts["gpt4o"], vals.subscriptions["gpt4o"] = &p1, &s1
	vals.prompts["dalle3"], vals.subscriptions["dalle3"] = &p2, &s2

	f, err := vals.scenario()
	if err != nil {
		t.Fatalf("scenario: %v", err)
	}
	sel, err := f.Resolve(catalog.Default(), 10)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	u, ok := sel.UsageForModel("gpt4o")
	if !ok || u.PromptsPerDay != 20 || u.Subscription == nil {
		t.Fatalf("gpt4o usage = %+v", u)
	}
	u, ok = sel.UsageForModel("dalle3")
	if !ok || u.PromptsPerDay != 5 || u.Subscription != nil {
		t.Fatalf("dalle3 usage = %+v", u)
	}

	bad := "-1"
	vals.prompts["dalle3"] = &bad
	if _, err := vals.scenario(); err == nil {
		t.Fatal("scenario accepted negative prompts")
	}
}

func TestModelOptions_MarksUnservedModels(t *testing.T) {
	opts := modelOptions(catalog.Default(), []string{"writing"})
	for _, o := range opts {
		unserved := strings.Contains(o.Key, "no matching area")
		if o.Value == "gpt4o" && unserved {
			t.Fatal("gpt4o marked as unserved for writing")
		}
		if o.Value == "sora" && !unserved {
			t.Fatal("sora not marked as unserved for writing")
		}
	}
}

// drive feeds the messages produced by cmd back into m until no command is
// left. Commands that block (cursor blinks) are dropped after a short wait.
func drive(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	cmdType := reflect.TypeOf(tea.Cmd(nil))
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("commands did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}

		msg := runCmd(c)
		switch msg := msg.(type) {
		case nil, tea.QuitMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		}
		if v := reflect.ValueOf(msg); v.Kind() == reflect.Slice && v.Type().Elem() == cmdType {
			for i := range v.Len() {
				queue = append(queue, v.Index(i).Interface().(tea.Cmd))
			}
			continue
		}
		if strings.Contains(fmt.Sprintf("%T", msg), "Blink") {
			continue
		}

		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, next)
	}
	return m
}

func runCmd(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func TestApp_SetupFormSavesTypedValues(t *testing.T) {
	var saved *config.Config
	a := NewApp(Options{
		Catalog:   catalog.Default(),
		Config:    config.DefaultConfig(),
		NeedSetup: true,
		Save: func(c config.Config) error {
			saved = &c
			return nil
		},
	})

	var m tea.Model = a
	m = drive(t, m, m.Init())
	keys := []tea.KeyMsg{
		{Type: tea.KeyEnd},
		{Type: tea.KeyCtrlU},
		runes("7"),
		runes("7"),
	}
	for _, k := range keys {
		var cmd tea.Cmd
		m, cmd = m.Update(k)
		m = drive(t, m, cmd)
	}

	for range 5 {
		if saved != nil {
			break
		}
		var cmd tea.Cmd
		m, cmd = m.Update(enter)
		m = drive(t, m, cmd)
	}

	if saved == nil {
		t.Fatal("setup form never completed")
	}
	if saved.General.DefaultPromptsPerDay != 77 {
		t.Fatalf("saved prompts = %d, want 77", saved.General.DefaultPromptsPerDay)
	}
	app := m.(App)
	if app.needSetup || app.defaultPrompts != 77 {
		t.Fatalf("app after setup: needSetup=%v prompts=%d", app.needSetup, app.defaultPrompts)
	}
}
