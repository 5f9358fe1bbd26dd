// Package tui provides the interactive Bubble Tea calculator and the huh
// forms for payg.
package tui

import (
	"errors"
	"log/slog"

	"github.com/theirongolddev/payg/internal/calc"
	"github.com/theirongolddev/payg/internal/catalog"
	"github.com/theirongolddev/payg/internal/config"
	"github.com/theirongolddev/payg/internal/model"
	"github.com/theirongolddev/payg/internal/selection"
	"github.com/theirongolddev/payg/internal/tui/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

const (
	paneAreas = iota
	paneModels
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
)

// Options configures a new App.
type Options struct {
	Catalog catalog.Catalog
	Config  config.Config
	// Selection seeds the calculator; nil starts empty.
	Selection *selection.State
	// NeedSetup shows the setup form before the calculator.
	NeedSetup bool
	// Save persists the config written by the setup form. Nil skips saving.
	Save func(config.Config) error
}

// App is the root Bubble Tea model.
type App struct {
	cat            catalog.Catalog
	cfg            config.Config
	sel            *selection.State
	mode           model.BucketMode
	defaultPrompts int

	// Recomputed after every change; nil until the selection is complete.
	result *model.Result
	status string
	err    error

	pane        int
	areaCursor  int
	modelCursor int

	width  int
	height int
	keys   keyMap
	help   help.Model

	// The form writes through setupVals, which stays shared across the
	// value copies Bubble Tea makes of App.
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool
	save      func(config.Config) error
}

// NewApp creates a new calculator model.
func NewApp(opts Options) App {
	mode, err := model.ParseBucketMode(opts.Config.General.BucketMode)
	if err != nil {
		slog.Warn("ignoring configured bucket mode", "err", err)
		mode = model.BucketOverwrite
	}
	prompts := opts.Config.General.DefaultPromptsPerDay
	if prompts <= 0 {
		prompts = selection.DefaultPromptsPerDay
	}
	sel := opts.Selection
	if sel == nil {
		sel = selection.New()
	}

	a := App{
		cat:            opts.Catalog,
		cfg:            opts.Config,
		sel:            sel,
		mode:           mode,
		defaultPrompts: prompts,
		keys:           defaultKeyMap(),
		help:           help.New(),
		needSetup:      opts.NeedSetup,
		save:           opts.Save,
	}
	if a.needSetup {
		vals := setupValuesFrom(opts.Config)
		a.setupVals = &vals
		a.setupForm = newSetupForm(a.setupVals)
	}
	a.recompute()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.Init()
	}
	return nil
}

// Result returns the latest calculation, or false when the selection is
// incomplete.
func (a App) Result() (model.Result, bool) {
	if a.result == nil {
		return model.Result{}, false
	}
	return *a.result, true
}

func (a *App) recompute() {
	res, err := a.sel.Compute(calc.Options{Mode: a.mode})
	if err != nil {
		a.result = nil
		if !errors.Is(err, selection.ErrIncomplete) {
			a.err = err
		}
		return
	}
	a.result = &res
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		return a.updateKeys(msg)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.err = nil
	a.status = ""

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, a.keys.NextPane):
		a.pane = (a.pane + 1) % 2
	case key.Matches(msg, a.keys.AreasPane):
		a.pane = paneAreas
	case key.Matches(msg, a.keys.ModelsPane):
		a.pane = paneModels
	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.Toggle):
		a.toggle()
	case key.Matches(msg, a.keys.More):
		a.adjustPrompts(1)
	case key.Matches(msg, a.keys.Less):
		a.adjustPrompts(-1)
	case key.Matches(msg, a.keys.MoreTen):
		a.adjustPrompts(10)
	case key.Matches(msg, a.keys.LessTen):
		a.adjustPrompts(-10)
	case key.Matches(msg, a.keys.Subscription):
		a.cycleSubscription()
	case key.Matches(msg, a.keys.Mode):
		a.mode = a.mode.Toggle()
		a.status = "bucket mode: " + string(a.mode)
	case key.Matches(msg, a.keys.Reset):
		a.sel = selection.New()
		a.status = "selection cleared"
	default:
		return a, nil
	}

	a.recompute()
	return a, nil
}

func (a *App) moveCursor(delta int) {
	if a.pane == paneAreas {
		a.areaCursor = clamp(a.areaCursor+delta, 0, len(a.cat.Areas)-1)
		return
	}
	a.modelCursor = clamp(a.modelCursor+delta, 0, len(a.cat.Models)-1)
}

func (a *App) toggle() {
	if a.pane == paneAreas {
		if len(a.cat.Areas) == 0 {
			return
		}
		a.sel.ToggleArea(a.cat.Areas[a.areaCursor])
		return
	}

	m, ok := a.cursorModel()
	if !ok {
		return
	}
	if u, selected := a.sel.UsageForModel(m.ID); selected {
		a.err = a.sel.RemoveUsage(u.ID)
		return
	}
	_, a.err = a.sel.AddUsage(m, a.defaultPrompts, nil)
}

// adjustPrompts changes the rate of the model under the cursor, stopping at
// 1 and selection.MaxPromptsPerDay.
func (a *App) adjustPrompts(delta int) {
	u, ok := a.cursorUsage()
	if !ok {
		return
	}
	n := clamp(u.PromptsPerDay+delta, 1, selection.MaxPromptsPerDay)
	if n == u.PromptsPerDay {
		return
	}
	a.err = a.sel.UpdatePromptsPerDay(u.ID, n)
}

// cycleSubscription steps the cursor model's plan through none and every
// catalog subscription in order.
func (a *App) cycleSubscription() {
	u, ok := a.cursorUsage()
	if !ok {
		return
	}
	subs := a.cat.Subscriptions
	if len(subs) == 0 {
		return
	}

	next := &subs[0]
	if u.Subscription != nil {
		next = nil
		for i := range subs {
			if subs[i].ID == u.Subscription.ID && i+1 < len(subs) {
				next = &subs[i+1]
				break
			}
		}
	}
	a.err = a.sel.UpdateSubscription(u.ID, next)
}

func (a App) cursorModel() (model.AIModel, bool) {
	if a.pane != paneModels || len(a.cat.Models) == 0 {
		return model.AIModel{}, false
	}
	return a.cat.Models[a.modelCursor], true
}

func (a App) cursorUsage() (model.ModelUsage, bool) {
	m, ok := a.cursorModel()
	if !ok {
		return model.ModelUsage{}, false
	}
	return a.sel.UsageForModel(m.ID)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.finishSetup()
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a *App) finishSetup() {
	a.needSetup = false
	a.setupForm = nil

	cfg, err := a.setupVals.apply(a.cfg)
	if err != nil {
		a.err = err
		return
	}
	a.cfg = cfg
	a.defaultPrompts = cfg.General.DefaultPromptsPerDay
	a.mode = model.BucketMode(cfg.General.BucketMode)
	theme.SetActive(cfg.Appearance.Theme)

	if a.save != nil {
		if err := a.save(cfg); err != nil {
			a.err = err
			return
		}
	}
	a.status = "settings saved"
	a.recompute()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
