package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/theirongolddev/payg/internal/calc"
	"github.com/theirongolddev/payg/internal/cli"
	"github.com/theirongolddev/payg/internal/model"
	"github.com/theirongolddev/payg/internal/scenario"
	"github.com/theirongolddev/payg/internal/selection"

	"github.com/spf13/cobra"
)

var explainFlags selectionFlags

// workedExample is explained when no selection flags are given.
var workedExample = scenario.File{
	Areas: []string{"writing", "programming"},
	Usages: []scenario.UsageSpec{
		{Model: "gpt4o", PromptsPerDay: 20, Subscription: "chatgptplus"},
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Walk through the cost formula step by step",
	Long: "Explain how the monthly estimate is built for a selection. Without\n" +
		"selection flags, a worked example of two areas at 20 prompts/day is used.",
	Args: cobra.NoArgs,
	RunE: runExplain,
}

func init() {
	explainFlags.register(explainCmd)
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, _ []string) error {
	cfg, cat, err := loadEnvironment()
	if err != nil {
		return err
	}

	var (
		sel  *selection.State
		mode model.BucketMode
	)
	if explainFlags.empty() {
		if mode, err = resolveMode(cfg, workedExample); err != nil {
			return err
		}
		sel, err = workedExample.Resolve(cat, cfg.General.DefaultPromptsPerDay)
	} else {
		sel, mode, err = explainFlags.resolve(cfg, cat)
	}
	if err != nil {
		return err
	}

	res, err := sel.Compute(calc.Options{Mode: mode})
	if err != nil {
		return err
	}
	explain(cmd.OutOrStdout(), sel.Areas(), sel.Usages(), res)
	return nil
}

func explain(w io.Writer, areas []model.UsageArea, usages []model.ModelUsage, res model.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle("HOW THE ESTIMATE IS BUILT"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Selected usage areas (average tokens per prompt):")
	for _, a := range areas {
		fmt.Fprintf(w, "    %-18s %s in / %s out\n", a.Name,
			cli.FormatNumber(a.AvgInputTokens), cli.FormatNumber(a.AvgOutputTokens))
	}
	fmt.Fprintln(w)

	for i, u := range usages {
		row := res.Usages[i]
		compatible := calc.CompatibleAreas(areas, u.Model.Type)
		fmt.Fprintf(w, "  %d. %s (%s, %s in / %s out per 1K tokens)\n", i+1, u.Model.Name, u.Model.Type,
			cli.FormatRate(u.Model.InputCostPer1K), cli.FormatRate(u.Model.OutputCostPer1K))

		fmt.Fprintf(w, "     monthly prompts   = %d/day x %d days = %s\n",
			u.PromptsPerDay, calc.DaysPerMonth, cli.FormatNumber(row.MonthlyPrompts))

		if len(compatible) == 0 {
			fmt.Fprintf(w, "     no selected area serves %s models: 0 tokens, %s\n\n", u.Model.Type.Label(), cli.FormatCost(row.TotalCost))
			continue
		}

		meanIn, meanOut := calc.MeanTokens(compatible)
		ins := make([]string, len(compatible))
		outs := make([]string, len(compatible))
		for j, a := range compatible {
			ins[j] = fmt.Sprint(a.AvgInputTokens)
			outs[j] = fmt.Sprint(a.AvgOutputTokens)
		}
		fmt.Fprintf(w, "     mean input/prompt = (%s) / %d = %s\n", strings.Join(ins, " + "), len(compatible), meanIn.String())
		fmt.Fprintf(w, "     mean output/prompt= (%s) / %d = %s\n", strings.Join(outs, " + "), len(compatible), meanOut.String())
		fmt.Fprintf(w, "     input tokens      = %s x %s = %s\n",
			meanIn.String(), cli.FormatNumber(row.MonthlyPrompts), cli.FormatTokenCount(row.Tokens.InputTokens))
		fmt.Fprintf(w, "     output tokens     = %s x %s = %s\n",
			meanOut.String(), cli.FormatNumber(row.MonthlyPrompts), cli.FormatTokenCount(row.Tokens.OutputTokens))
		fmt.Fprintf(w, "     input cost        = %s / 1000 x %s = %s\n",
			cli.FormatTokenCount(row.Tokens.InputTokens), u.Model.InputCostPer1K.String(), cli.FormatCost(row.InputCost))
		fmt.Fprintf(w, "     output cost       = %s / 1000 x %s = %s\n",
			cli.FormatTokenCount(row.Tokens.OutputTokens), u.Model.OutputCostPer1K.String(), cli.FormatCost(row.OutputCost))
		fmt.Fprintf(w, "     pay as you go     = %s\n", cli.FormatCost(row.TotalCost))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  Token totals by type (%s mode):\n", res.Mode)
	for _, t := range model.CapabilityTypes {
		v := res.Tokens.Get(t)
		fmt.Fprintf(w, "    %-6s %s in / %s out\n", t.Label(), cli.FormatTokenCount(v.InputTokens), cli.FormatTokenCount(v.OutputTokens))
	}
	if res.Mode == model.BucketOverwrite {
		fmt.Fprintln(w, "    (overwrite: each type shows the last model of that type; costs always sum every model)")
	}
	fmt.Fprintln(w)

	pct := "0, no subscription cost"
	if !res.SubscriptionCost.IsZero() {
		pct = fmt.Sprintf("%s / %s x 100 = %s", cli.FormatCost(res.Savings.MonthlySavings),
			cli.FormatCost(res.SubscriptionCost), cli.FormatPercent(res.Savings.SavingsPercentage))
	}
	fmt.Fprintf(w, "  pay as you go total = %s\n", cli.FormatCost(res.PayAsYouGoCost))
	fmt.Fprintf(w, "  subscriptions total = %s\n", cli.FormatCost(res.SubscriptionCost))
	fmt.Fprintf(w, "  savings             = %s - %s = %s\n",
		cli.FormatCost(res.SubscriptionCost), cli.FormatCost(res.PayAsYouGoCost), cli.FormatSavings(res.Savings.MonthlySavings))
	fmt.Fprintf(w, "  savings percentage  = %s\n\n", pct)
}
