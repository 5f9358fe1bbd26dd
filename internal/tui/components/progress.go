package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/payg/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// SavingsBar renders the share of the subscription bill that switching to
// pay-as-you-go would save. pct is in [0, 100]; a loss renders an empty bar.
func SavingsBar(label string, pct float64, profit bool, labelW, barWidth int) string {
	t := theme.Active

	pct = min(max(pct, 0), 100)
	color := t.Green
	if !profit {
		color = t.Red
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + " " +
		bar.ViewAs(pct/100) + " " +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", pct))
}

// CostBar is one row of a CostBars chart.
type CostBar struct {
	Label string
	Value float64
	Text  string // right-hand annotation, usually the formatted value
}

// CostBars renders labeled horizontal bars scaled to the largest value.
func CostBars(rows []CostBar, color lipgloss.Color, width int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	peak := 0.0
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
		textW = max(textW, lipgloss.Width(r.Text))
		peak = max(peak, r.Value)
	}
	barW := max(width-labelW-textW-2, 4)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	barStyle := lipgloss.NewStyle().Foreground(color)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	lines := make([]string, len(rows))
	for i, r := range rows {
		n := 0
		if peak > 0 && r.Value > 0 {
			n = max(int(r.Value/peak*float64(barW)), 1)
		}
		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, r.Label)) + " " +
			barStyle.Render(strings.Repeat("█", n)) + strings.Repeat(" ", barW-n) + " " +
			textStyle.Render(fmt.Sprintf("%*s", textW, r.Text))
	}
	return strings.Join(lines, "\n")
}
