package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ModelUsage binds one AI model to a prompts-per-day rate and an optional
// subscription. A nil Subscription means no active plan.
type ModelUsage struct { //nolint:revive // mirrors the domain term
	ID            string        `json:"id"`
	Model         AIModel       `json:"model"`
	PromptsPerDay int           `json:"prompts_per_day"`
	Subscription  *Subscription `json:"subscription,omitempty"`
}

// SubscriptionCost returns the monthly plan cost, zero when there is none.
func (u ModelUsage) SubscriptionCost() decimal.Decimal {
	if u.Subscription == nil {
		return decimal.Zero
	}
	return u.Subscription.MonthlyCost
}

// BucketMode selects how per-type token totals combine several usages of
// the same capability type.
type BucketMode string

const (
	// BucketOverwrite keeps only the last usage processed in each bucket.
	// Costs are unaffected; this matches the calculator's historical output.
	BucketOverwrite BucketMode = "overwrite"
	// BucketAccumulate sums every usage in the bucket.
	BucketAccumulate BucketMode = "accumulate"
)

// ParseBucketMode validates a mode string. Empty means BucketOverwrite.
func ParseBucketMode(s string) (BucketMode, error) {
	switch BucketMode(s) {
	case "", BucketOverwrite:
		return BucketOverwrite, nil
	case BucketAccumulate:
		return BucketAccumulate, nil
	default:
		return "", fmt.Errorf("unknown bucket mode %q (want overwrite or accumulate)", s)
	}
}

// Toggle returns the other mode.
func (m BucketMode) Toggle() BucketMode {
	if m == BucketAccumulate {
		return BucketOverwrite
	}
	return BucketAccumulate
}

// TokenVolume holds monthly input and output token counts.
type TokenVolume struct {
	InputTokens  decimal.Decimal `json:"input_tokens"`
	OutputTokens decimal.Decimal `json:"output_tokens"`
}

// Total returns input plus output tokens.
func (v TokenVolume) Total() decimal.Decimal {
	return v.InputTokens.Add(v.OutputTokens)
}

// TypeTotals maps each capability type to its monthly token volume.
type TypeTotals map[CapabilityType]TokenVolume

// Get returns the volume for t, zero if absent.
func (t TypeTotals) Get(c CapabilityType) TokenVolume {
	v, ok := t[c]
	if !ok {
		return TokenVolume{InputTokens: decimal.Zero, OutputTokens: decimal.Zero}
	}
	return v
}

// UsageBreakdown holds the monthly projection and cost for one model usage.
type UsageBreakdown struct {
	UsageID          string          `json:"usage_id"`
	ModelID          string          `json:"model_id"`
	ModelName        string          `json:"model_name"`
	Type             CapabilityType  `json:"type"`
	PromptsPerDay    int             `json:"prompts_per_day"`
	MonthlyPrompts   int64           `json:"monthly_prompts"`
	Tokens           TokenVolume     `json:"tokens"`
	InputCost        decimal.Decimal `json:"input_cost"`
	OutputCost       decimal.Decimal `json:"output_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	SubscriptionID   string          `json:"subscription_id,omitempty"`
	SubscriptionCost decimal.Decimal `json:"subscription_cost"`
}

// Savings compares a subscription bill to the pay-as-you-go estimate.
type Savings struct {
	MonthlySavings    decimal.Decimal `json:"monthly_savings"`
	SavingsPercentage decimal.Decimal `json:"savings_percentage"`
}

// IsProfit reports whether switching to pay-as-you-go saves money.
func (s Savings) IsProfit() bool {
	return s.MonthlySavings.IsPositive()
}

// ProgressPercent returns the savings percentage clamped to [0, 100], or 0
// when switching would not save anything.
func (s Savings) ProgressPercent() float64 {
	if !s.IsProfit() {
		return 0
	}
	pct := s.SavingsPercentage.InexactFloat64()
	switch {
	case pct > 100:
		return 100
	case pct < 0:
		return 0
	}
	return pct
}

// Result is the full output of one calculation.
type Result struct {
	Mode             BucketMode       `json:"mode"`
	Tokens           TypeTotals       `json:"tokens"`
	Usages           []UsageBreakdown `json:"usages"`
	PayAsYouGoCost   decimal.Decimal  `json:"pay_as_you_go_cost"`
	SubscriptionCost decimal.Decimal  `json:"subscription_cost"`
	Savings          Savings          `json:"savings"`
}

// TotalMonthlyPrompts sums monthly prompts across usages.
func (r Result) TotalMonthlyPrompts() int64 {
	var n int64
	for _, u := range r.Usages {
		n += u.MonthlyPrompts
	}
	return n
}
