package calc

import (
	"github.com/theirongolddev/payg/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Savings compares subscription cost with pay-as-you-go cost. A positive
// MonthlySavings means pay-as-you-go is cheaper. The percentage is relative
// to the subscription cost and is zero when there is no subscription cost.
func Savings(subscriptionCost, payAsYouGoCost decimal.Decimal) model.Savings {
	diff := subscriptionCost.Sub(payAsYouGoCost)

	pct := decimal.Zero
	if !subscriptionCost.IsZero() {
		pct = diff.Div(subscriptionCost).Mul(hundred)
	}

	return model.Savings{
		MonthlySavings:    diff,
		SavingsPercentage: pct,
	}
}
