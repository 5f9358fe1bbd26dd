// Package calc projects monthly token volumes from usage areas and model
// usages, prices them, and compares the result with subscription costs.
// Every function is pure: callers pass the current selection by value and
// get fresh results back.
package calc

import (
	"github.com/theirongolddev/payg/internal/model"

	"github.com/shopspring/decimal"
)

// DaysPerMonth is the fixed month length used for projections.
const DaysPerMonth = 30

// MonthlyPrompts converts a daily prompt rate to a monthly volume.
func MonthlyPrompts(promptsPerDay int) int64 {
	return int64(promptsPerDay) * DaysPerMonth
}

// CompatibleAreas returns the areas that models of type t can serve,
// preserving input order.
func CompatibleAreas(areas []model.UsageArea, t model.CapabilityType) []model.UsageArea {
	var out []model.UsageArea
	for _, a := range areas {
		if a.Supports(t) {
			out = append(out, a)
		}
	}
	return out
}

// MeanTokens returns the unweighted mean of average input and output tokens
// per prompt across areas. Both are zero for an empty slice.
func MeanTokens(areas []model.UsageArea) (input, output decimal.Decimal) {
	if len(areas) == 0 {
		return decimal.Zero, decimal.Zero
	}

	var sumIn, sumOut int64
	for _, a := range areas {
		sumIn += a.AvgInputTokens
		sumOut += a.AvgOutputTokens
	}

	n := decimal.NewFromInt(int64(len(areas)))
	return decimal.NewFromInt(sumIn).Div(n), decimal.NewFromInt(sumOut).Div(n)
}

// ProjectUsage computes one usage's monthly token volume from the mean of
// the areas compatible with its model.
func ProjectUsage(areas []model.UsageArea, u model.ModelUsage) model.TokenVolume {
	return projectWithMean(CompatibleAreas(areas, u.Model.Type), u)
}

func projectWithMean(compatible []model.UsageArea, u model.ModelUsage) model.TokenVolume {
	if len(compatible) == 0 {
		return zeroVolume()
	}
	meanIn, meanOut := MeanTokens(compatible)
	prompts := decimal.NewFromInt(MonthlyPrompts(u.PromptsPerDay))
	return model.TokenVolume{
		InputTokens:  meanIn.Mul(prompts),
		OutputTokens: meanOut.Mul(prompts),
	}
}

// ProjectMonthlyTokens groups usages by capability type and returns the
// monthly token volume of each bucket. Every capability type is present in
// the result.
//
// With model.BucketOverwrite each usage replaces its bucket's total, so a
// bucket holding several usages reports only the last one. Costs are
// computed per usage elsewhere and never read these totals.
func ProjectMonthlyTokens(areas []model.UsageArea, usages []model.ModelUsage, mode model.BucketMode) model.TypeTotals {
	totals := make(model.TypeTotals, len(model.CapabilityTypes))
	for _, t := range model.CapabilityTypes {
		totals[t] = zeroVolume()
	}

	buckets := make(map[model.CapabilityType][]model.ModelUsage)
	for _, u := range usages {
		buckets[u.Model.Type] = append(buckets[u.Model.Type], u)
	}

	for _, t := range model.CapabilityTypes {
		bucket := buckets[t]
		if len(bucket) == 0 {
			continue
		}

		compatible := CompatibleAreas(areas, t)
		if len(compatible) == 0 {
			continue
		}

		for _, u := range bucket {
			vol := projectWithMean(compatible, u)
			if mode == model.BucketAccumulate {
				cur := totals[t]
				totals[t] = model.TokenVolume{
					InputTokens:  cur.InputTokens.Add(vol.InputTokens),
					OutputTokens: cur.OutputTokens.Add(vol.OutputTokens),
				}
				continue
			}
			totals[t] = vol
		}
	}

	return totals
}

func zeroVolume() model.TokenVolume {
	return model.TokenVolume{InputTokens: decimal.Zero, OutputTokens: decimal.Zero}
}
