package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/payg/internal/catalog"
	"github.com/theirongolddev/payg/internal/cli"
	"github.com/theirongolddev/payg/internal/model"

	"github.com/spf13/cobra"
)

var flagCatalogType string

var catalogCmd = &cobra.Command{
	Use:       "catalog [areas|models|subscriptions]",
	Short:     "List usage areas, models and subscriptions",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"areas", "models", "subscriptions"},
	RunE:      runCatalog,
}

func init() {
	catalogCmd.Flags().StringVarP(&flagCatalogType, "type", "t", "", "Filter areas and models by capability type (text-to-text, text-to-image, text-to-video)")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	_, cat, err := loadEnvironment()
	if err != nil {
		return err
	}

	if flagCatalogType != "" {
		t, err := model.ParseCapabilityType(flagCatalogType)
		if err != nil {
			return err
		}
		cat = catalog.Catalog{
			Areas:         cat.AreasFor(t),
			Models:        cat.ModelsOfType(t),
			Subscriptions: cat.Subscriptions,
		}
	}

	section := ""
	if len(args) == 1 {
		section = args[0]
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		switch section {
		case "areas":
			return writeJSON(out, cat.Areas)
		case "models":
			return writeJSON(out, cat.Models)
		case "subscriptions":
			return writeJSON(out, cat.Subscriptions)
		}
		return writeJSON(out, cat)
	}

	fmt.Fprintln(out)
	if section == "" || section == "areas" {
		fmt.Fprint(out, cli.RenderTable(areasTable(cat.Areas)))
		fmt.Fprintln(out)
	}
	if section == "" || section == "models" {
		fmt.Fprint(out, cli.RenderTable(modelsTable(cat.Models)))
		fmt.Fprintln(out)
	}
	if section == "" || section == "subscriptions" {
		fmt.Fprint(out, cli.RenderTable(subscriptionsTable(cat.Subscriptions)))
		fmt.Fprintln(out)
	}
	return nil
}

func areasTable(areas []model.UsageArea) cli.Table {
	rows := make([][]string, len(areas))
	for i, a := range areas {
		types := make([]string, len(a.ModelTypes))
		for j, t := range a.ModelTypes {
			types[j] = t.Label()
		}
		rows[i] = []string{
			a.ID, a.Name,
			cli.FormatNumber(a.AvgInputTokens),
			cli.FormatNumber(a.AvgOutputTokens),
			strings.Join(types, ", "),
		}
	}
	return cli.Table{
		Title:   "Usage Areas (tokens per prompt)",
		Headers: []string{"ID", "Name", "Input", "Output", "Model types"},
		Rows:    rows,
	}
}

func modelsTable(models []model.AIModel) cli.Table {
	rows := make([][]string, len(models))
	for i, m := range models {
		rows[i] = []string{
			m.ID, m.Name, m.Provider, m.Type.Label(),
			cli.FormatRate(m.InputCostPer1K),
			cli.FormatRate(m.OutputCostPer1K),
		}
	}
	return cli.Table{
		Title:   "Models (USD per 1K tokens)",
		Headers: []string{"ID", "Name", "Provider", "Type", "Input", "Output"},
		Rows:    rows,
	}
}

func subscriptionsTable(subs []model.Subscription) cli.Table {
	rows := make([][]string, 0, len(subs)+1)
	rows = append(rows, []string{catalog.NoSubscriptionID, "No subscription", "-", cli.FormatCost(model.Subscription{}.MonthlyCost)})
	for _, s := range subs {
		rows = append(rows, []string{s.ID, s.Name, s.Provider, cli.FormatCost(s.MonthlyCost)})
	}
	return cli.Table{
		Title:   "Subscriptions (monthly)",
		Headers: []string{"ID", "Name", "Provider", "Cost"},
		Rows:    rows,
	}
}
