package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	NextPane     key.Binding
	AreasPane    key.Binding
	ModelsPane   key.Binding
	Toggle       key.Binding
	More         key.Binding
	Less         key.Binding
	MoreTen      key.Binding
	LessTen      key.Binding
	Subscription key.Binding
	Mode         key.Binding
	Reset        key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextPane:     key.NewBinding(key.WithKeys("tab", "shift+tab", "left", "right", "h", "l"), key.WithHelp("tab", "switch pane")),
		AreasPane:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "areas")),
		ModelsPane:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "models")),
		Toggle:       key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "select")),
		More:         key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "prompts +1")),
		Less:         key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "prompts -1")),
		MoreTen:      key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "prompts +10")),
		LessTen:      key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prompts -10")),
		Subscription: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle plan")),
		Mode:         key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "bucket mode")),
		Reset:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Toggle, k.More, k.Less, k.Subscription, k.Mode, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPane, k.AreasPane, k.ModelsPane},
		{k.Toggle, k.More, k.Less, k.MoreTen, k.LessTen},
		{k.Subscription, k.Mode, k.Reset, k.Help, k.Quit},
	}
}
