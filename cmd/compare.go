package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/theirongolddev/payg/internal/calc"
	"github.com/theirongolddev/payg/internal/catalog"
	"github.com/theirongolddev/payg/internal/cli"
	"github.com/theirongolddev/payg/internal/model"

	"github.com/spf13/cobra"
)

var compareFlags selectionFlags

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare subscription costs with pay-as-you-go for a selection",
	Example: `  payg compare --area writing,programming --use gpt4o:10:chatgptplus
  payg compare --scenario team.toml --mode accumulate --json`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func init() {
	compareFlags.register(compareCmd)
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	cfg, cat, err := loadEnvironment()
	if err != nil {
		return err
	}
	sel, mode, err := compareFlags.resolve(cfg, cat)
	if err != nil {
		return err
	}
	res, err := sel.Compute(calc.Options{Mode: mode})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, res)
	}
	renderResult(out, sel.Areas(), res, cat)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderResult(w io.Writer, areas []model.UsageArea, res model.Result, cat catalog.Catalog) {
	names := make([]string, len(areas))
	for i, a := range areas {
		names[i] = a.Name
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle("PAY AS YOU GO vs SUBSCRIPTIONS"))
	fmt.Fprintln(w)
	fmt.Fprint(w, cli.RenderKeyValues([][2]string{
		{"Usage areas", strings.Join(names, ", ")},
		{"Bucket mode", string(res.Mode)},
	}))
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(res.Usages)+2)
	for _, u := range res.Usages {
		plan := "-"
		if u.SubscriptionID != "" {
			plan = u.SubscriptionID
			if s, err := cat.Subscription(u.SubscriptionID); err == nil && s != nil {
				plan = s.Name
			}
		}
		rows = append(rows, []string{
			u.ModelName,
			u.Type.Label(),
			cli.FormatNumber(int64(u.PromptsPerDay)),
			cli.FormatNumber(u.MonthlyPrompts),
			cli.FormatTokens(u.Tokens.InputTokens),
			cli.FormatTokens(u.Tokens.OutputTokens),
			cli.FormatCost(u.TotalCost),
			plan,
			cli.FormatCost(u.SubscriptionCost),
		})
	}
	rows = append(rows, []string{cli.SeparatorRow})
	rows = append(rows, []string{
		"TOTAL", "", "", cli.FormatNumber(res.TotalMonthlyPrompts()), "", "",
		cli.FormatCost(res.PayAsYouGoCost), "", cli.FormatCost(res.SubscriptionCost),
	})
	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Title:   "Per Model (monthly)",
		Headers: []string{"Model", "Type", "Prompts/day", "Prompts", "Input", "Output", "PAYG", "Plan", "Plan cost"},
		Rows:    rows,
	}))
	fmt.Fprintln(w)

	typeRows := make([][]string, 0, len(model.CapabilityTypes))
	for _, t := range model.CapabilityTypes {
		v := res.Tokens.Get(t)
		typeRows = append(typeRows, []string{
			t.Label(),
			cli.FormatTokenCount(v.InputTokens),
			cli.FormatTokenCount(v.OutputTokens),
			cli.FormatTokenCount(v.Total()),
		})
	}
	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Title:   "Tokens by Type",
		Headers: []string{"Type", "Input", "Output", "Total"},
		Rows:    typeRows,
	}))
	fmt.Fprintln(w)

	fmt.Fprint(w, cli.RenderKeyValues([][2]string{
		{"Pay as you go", cli.FormatCost(res.PayAsYouGoCost)},
		{"Subscriptions", cli.FormatCost(res.SubscriptionCost)},
		{"Savings", cli.FormatSavings(res.Savings.MonthlySavings) + "  (" + cli.FormatPercent(res.Savings.SavingsPercentage) + ")"},
	}))
	fmt.Fprintf(w, "  %s\n\n", cli.RenderProgressBar(res.Savings.ProgressPercent(), 40))
	fmt.Fprintf(w, "  %s\n\n", verdict(res))
}

func verdict(res model.Result) string {
	switch {
	case res.SubscriptionCost.IsZero():
		return "No subscriptions selected: pay as you go costs " + cli.FormatCost(res.PayAsYouGoCost) + " a month."
	case res.Savings.IsProfit():
		return fmt.Sprintf("Switching to pay as you go saves %s a month.", cli.FormatCost(res.Savings.MonthlySavings))
	case res.Savings.MonthlySavings.IsZero():
		return "Subscriptions and pay as you go cost the same."
	default:
		return fmt.Sprintf("Your subscriptions are cheaper by %s a month.", cli.FormatCost(res.Savings.MonthlySavings.Neg()))
	}
}
