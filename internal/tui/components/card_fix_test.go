package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/payg/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowMatchesTallestCard(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22, false)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22, true)

	tallLines := lipgloss.Height(tallCard)
	if lipgloss.Height(shortCard) >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
	}
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tt := range []struct{ total, n int }{{100, 3}, {80, 4}, {7, 2}, {10, 0}} {
		sum := 0
		for _, w := range LayoutRow(tt.total, tt.n) {
			sum += w
		}
		if tt.n > 0 && sum != tt.total {
			t.Fatalf("LayoutRow(%d, %d) sums to %d", tt.total, tt.n, sum)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Pay as you go", Value: "$6.00"},
		{Label: "Subscriptions", Value: "$20.00"},
		{Label: "Savings", Value: "+$14.00", Color: theme.Active.Green},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Fatalf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestCostBarsScalesToPeak(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(termenv.TrueColor)

	out := CostBars([]CostBar{
		{Label: "GPT-4o", Value: 10, Text: "$10.00"},
		{Label: "Sora", Value: 5, Text: "$5.00"},
		{Label: "Llama", Value: 0, Text: "$0.00"},
	}, theme.Active.Green, 40)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	full := strings.Count(lines[0], "█")
	half := strings.Count(lines[1], "█")
	if full == 0 || half != full/2 {
		t.Fatalf("bars = %d and %d, want second half of first", full, half)
	}
	if strings.Contains(lines[2], "█") {
		t.Fatalf("zero value drew a bar: %q", lines[2])
	}
}
