package calc

import (
	"github.com/theirongolddev/payg/internal/model"

	"github.com/shopspring/decimal"
)

var perThousand = decimal.NewFromInt(1000)

// UsageCost prices one usage's own monthly projection. It is independent of
// the per-type display totals.
func UsageCost(areas []model.UsageArea, u model.ModelUsage) model.UsageBreakdown {
	vol := ProjectUsage(areas, u)

	inputCost := vol.InputTokens.Div(perThousand).Mul(u.Model.InputCostPer1K)
	outputCost := vol.OutputTokens.Div(perThousand).Mul(u.Model.OutputCostPer1K)

	row := model.UsageBreakdown{
		UsageID:          u.ID,
		ModelID:          u.Model.ID,
		ModelName:        u.Model.Name,
		Type:             u.Model.Type,
		PromptsPerDay:    u.PromptsPerDay,
		MonthlyPrompts:   MonthlyPrompts(u.PromptsPerDay),
		Tokens:           vol,
		InputCost:        inputCost,
		OutputCost:       outputCost,
		TotalCost:        inputCost.Add(outputCost),
		SubscriptionCost: u.SubscriptionCost(),
	}
	if u.Subscription != nil {
		row.SubscriptionID = u.Subscription.ID
	}
	return row
}

// AggregateCost returns the total monthly pay-as-you-go cost of all usages.
func AggregateCost(areas []model.UsageArea, usages []model.ModelUsage) decimal.Decimal {
	total := decimal.Zero
	for _, u := range usages {
		total = total.Add(UsageCost(areas, u).TotalCost)
	}
	return total
}

// AggregateSubscriptionCost sums monthly plan costs; usages without a plan
// count as zero.
func AggregateSubscriptionCost(usages []model.ModelUsage) decimal.Decimal {
	total := decimal.Zero
	for _, u := range usages {
		total = total.Add(u.SubscriptionCost())
	}
	return total
}
