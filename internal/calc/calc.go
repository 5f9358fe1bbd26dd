package calc

import (
	"github.com/theirongolddev/payg/internal/model"

	"github.com/shopspring/decimal"
)

// Options controls presentation-only aspects of a calculation.
type Options struct {
	Mode model.BucketMode
}

// Compute runs the projector, cost aggregator and savings calculator over
// one selection.
func Compute(areas []model.UsageArea, usages []model.ModelUsage, opts Options) model.Result {
	mode := opts.Mode
	if mode == "" {
		mode = model.BucketOverwrite
	}

	rows := make([]model.UsageBreakdown, 0, len(usages))
	payg := decimal.Zero
	for _, u := range usages {
		row := UsageCost(areas, u)
		rows = append(rows, row)
		payg = payg.Add(row.TotalCost)
	}

	subCost := AggregateSubscriptionCost(usages)

	return model.Result{
		Mode:             mode,
		Tokens:           ProjectMonthlyTokens(areas, usages, mode),
		Usages:           rows,
		PayAsYouGoCost:   payg,
		SubscriptionCost: subCost,
		Savings:          Savings(subCost, payg),
	}
}
