package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/payg/internal/cli"
	"github.com/theirongolddev/payg/internal/model"
	"github.com/theirongolddev/payg/internal/tui/components"
	"github.com/theirongolddev/payg/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	t := theme.Active
	msg := lipgloss.NewStyle().Foreground(t.Orange).
		Render(fmt.Sprintf("Terminal too narrow (%d cols, need %d)", a.width, minTerminalWidth))
	return lipgloss.Place(a.width, max(a.height, 5), lipgloss.Center, lipgloss.Center, msg)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) viewMain() string {
	t := theme.Active
	cw := a.contentWidth()

	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	header := titleStyle.Render(" payg") +
		pillStyle.Render("  subscription vs pay-as-you-go  ") +
		components.RenderPaneBar(a.pane) +
		pillStyle.Render("   mode: ") + lipgloss.NewStyle().Foreground(t.Yellow).Render(string(a.mode))

	widths := components.LayoutRow(cw, 2)
	panes := components.CardRow([]string{
		components.ContentCard("Usage areas", a.renderAreas(components.CardInnerWidth(widths[0])), widths[0], a.pane == paneAreas),
		components.ContentCard("Models", a.renderModels(components.CardInnerWidth(widths[1])), widths[1], a.pane == paneModels),
	})

	sections := []string{header, panes, a.renderResult(cw)}
	if a.help.ShowAll {
		sections = append(sections, " "+a.help.View(a.keys))
	}

	status := string(a.mode)
	switch {
	case a.err != nil:
		status = lipgloss.NewStyle().Foreground(t.Red).Render(a.err.Error())
	case a.status != "":
		status = a.status
	}
	hints := a.help.ShortHelpView(a.keys.ShortHelp())
	if a.help.ShowAll {
		hints = "[?] close help"
	}
	sections = append(sections, components.RenderStatusBar(cw, hints, status))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) renderAreas(width int) string {
	t := theme.Active
	cursorStyle := lipgloss.NewStyle().Background(t.SurfaceHover).Foreground(t.TextPrimary)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	metaStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	checkStyle := lipgloss.NewStyle().Foreground(t.Green)

	lines := make([]string, len(a.cat.Areas))
	for i, area := range a.cat.Areas {
		check := "[ ]"
		if a.sel.HasArea(area.ID) {
			check = checkStyle.Render("[x]")
		}
		types := make([]string, len(area.ModelTypes))
		for j, mt := range area.ModelTypes {
			types[j] = mt.Label()
		}
		meta := fmt.Sprintf("%d/%d tok  %s", area.AvgInputTokens, area.AvgOutputTokens, strings.Join(types, "+"))

		name := truncate(area.Name, max(width-lipgloss.Width(meta)-6, 8))
		if a.pane == paneAreas && i == a.areaCursor {
			name = cursorStyle.Render(name)
		} else {
			name = nameStyle.Render(name)
		}
		lines[i] = check + " " + name + "  " + metaStyle.Render(meta)
	}
	return strings.Join(lines, "\n")
}

func (a App) renderModels(width int) string {
	t := theme.Active
	cursorStyle := lipgloss.NewStyle().Background(t.SurfaceHover).Foreground(t.TextPrimary)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	checkStyle := lipgloss.NewStyle().Foreground(t.Green)
	rateStyle := lipgloss.NewStyle().Foreground(t.Blue)

	areas := a.sel.Areas()
	lines := make([]string, len(a.cat.Models))
	for i, m := range a.cat.Models {
		check := "[ ]"
		detail := dimStyle.Render(m.Type.Label() + " · " + m.Provider)
		if u, ok := a.sel.UsageForModel(m.ID); ok {
			check = checkStyle.Render("[x]")
			plan := "no plan"
			if u.Subscription != nil {
				plan = u.Subscription.Name
			}
			detail = rateStyle.Render(cli.FormatPrompts(u.PromptsPerDay)) + dimStyle.Render(" · "+plan)
		}

		name := truncate(m.Name, max(width/2-4, 8))
		switch {
		case a.pane == paneModels && i == a.modelCursor:
			name = cursorStyle.Render(name)
		case len(areas) > 0 && !servesAny(areas, m.Type):
			name = dimStyle.Render(name)
		default:
			name = nameStyle.Render(name)
		}
		lines[i] = check + " " + name + "  " + detail
	}
	return strings.Join(lines, "\n")
}

func (a App) renderResult(cw int) string {
	t := theme.Active

	if a.result == nil {
		hint := lipgloss.NewStyle().Foreground(t.TextMuted).
			Render("Select at least one usage area and one model to compare costs.")
		return components.ContentCard("Monthly comparison", hint, cw, false)
	}
	r := *a.result

	savingsColor := t.Green
	if !r.Savings.IsProfit() {
		savingsColor = t.Red
	}
	cards := components.MetricCardRow([]components.Metric{
		{Label: "Monthly prompts", Value: cli.FormatNumber(r.TotalMonthlyPrompts())},
		{Label: "Pay as you go", Value: cli.FormatCost(r.PayAsYouGoCost), Color: t.Blue},
		{Label: "Subscriptions", Value: cli.FormatCost(r.SubscriptionCost)},
		{
			Label: "Savings",
			Value: cli.FormatSavings(r.Savings.MonthlySavings),
			Note:  cli.FormatPercent(r.Savings.SavingsPercentage) + " of plans",
			Color: savingsColor,
		},
	}, cw)

	inner := components.CardInnerWidth(cw)
	bar := components.SavingsBar("Savings", r.Savings.ProgressPercent(), r.Savings.IsProfit(), 8, inner-16)

	rows := make([]components.CostBar, len(r.Usages))
	for i, u := range r.Usages {
		rows[i] = components.CostBar{
			Label: u.ModelName,
			Value: u.TotalCost.InexactFloat64(),
			Text:  fmt.Sprintf("%s  %s tok", cli.FormatCost(u.TotalCost), cli.FormatTokens(u.Tokens.Total())),
		}
	}
	breakdown := components.CostBars(rows, t.Blue, inner)

	var tokens []string
	for _, ct := range model.CapabilityTypes {
		v := r.Tokens.Get(ct)
		tokens = append(tokens, fmt.Sprintf("%s %s in / %s out",
			ct.Label(), cli.FormatTokens(v.InputTokens), cli.FormatTokens(v.OutputTokens)))
	}
	tokenLine := lipgloss.NewStyle().Foreground(t.TextDim).Render(strings.Join(tokens, "   "))

	body := bar + "\n\n" + breakdown + "\n\n" + tokenLine
	return lipgloss.JoinVertical(lipgloss.Left, cards, components.ContentCard("Per model", body, cw, false))
}

func servesAny(areas []model.UsageArea, t model.CapabilityType) bool {
	for _, a := range areas {
		if a.Supports(t) {
			return true
		}
	}
	return false
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
