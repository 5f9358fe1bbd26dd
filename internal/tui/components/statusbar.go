package components

import (
	"strings"

	"github.com/theirongolddev/payg/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar with key hints on the left
// and status text on the right.
func RenderStatusBar(width int, hints, status string) string {
	t := theme.Active

	left := " " + hints
	right := status + " "

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)

	return lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width).
		Render(left + strings.Repeat(" ", padding) + right)
}

// Pane is a focusable column of the calculator.
type Pane struct {
	Name string
	Key  string
}

// Panes lists the calculator panes in focus order.
var Panes = []Pane{
	{Name: "Usage areas", Key: "1"},
	{Name: "Models", Key: "2"},
}

// RenderPaneBar renders the pane switcher with the active pane highlighted.
func RenderPaneBar(activeIdx int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	parts := make([]string, len(Panes))
	for i, p := range Panes {
		name := inactiveStyle.Render(p.Name)
		if i == activeIdx {
			name = activeStyle.Render(p.Name)
		}
		parts[i] = keyStyle.Render("["+p.Key+"]") + " " + name
	}
	return " " + strings.Join(parts, "   ")
}
