// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
)

// FormatTokens formats a token count with human-readable suffixes.
// e.g., 1234 -> "1.2K", 1234567 -> "1.2M", 1234567890 -> "1.2B"
func FormatTokens(n decimal.Decimal) string {
	abs := n.Abs()
	switch {
	case abs.GreaterThanOrEqual(billion):
		return n.Div(billion).StringFixed(1) + "B"
	case abs.GreaterThanOrEqual(million):
		return n.Div(million).StringFixed(1) + "M"
	case abs.GreaterThanOrEqual(thousand):
		return n.Div(thousand).StringFixed(1) + "K"
	default:
		return n.Round(0).String()
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatTokenCount formats an exact token count with separators.
func FormatTokenCount(n decimal.Decimal) string {
	return FormatNumber(n.Round(0).IntPart())
}

// FormatCost formats a USD amount with two decimals and thousands separators.
// e.g., 6 -> "$6.00", -14 -> "-$14.00", 1234.5 -> "$1,234.50"
func FormatCost(cost decimal.Decimal) string {
	sign := ""
	if cost.IsNegative() {
		sign = "-"
		cost = cost.Neg()
	}
	cents := cost.Round(2)
	whole := cents.Truncate(0)
	frac := cents.Sub(whole).Shift(2).IntPart()
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(whole.IntPart()), frac)
}

// FormatRate formats a per-1K-token price without trailing zeros.
// e.g., 0.00025 -> "$0.00025", 0.1 -> "$0.1"
func FormatRate(rate decimal.Decimal) string {
	return "$" + rate.String()
}

// FormatPercent formats a percentage value with one decimal.
// e.g., 70 -> "70.0%"
func FormatPercent(pct decimal.Decimal) string {
	return pct.StringFixed(1) + "%"
}

// FormatSavings formats a savings amount with an explicit sign.
func FormatSavings(savings decimal.Decimal) string {
	if savings.IsNegative() {
		return FormatCost(savings)
	}
	return "+" + FormatCost(savings)
}

// FormatPrompts formats a prompts-per-day rate.
func FormatPrompts(perDay int) string {
	return strconv.Itoa(perDay) + "/day"
}
