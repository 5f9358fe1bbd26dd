package cmd

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/theirongolddev/payg/internal/cli"
	"github.com/theirongolddev/payg/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, cfg)
	}

	status := "using defaults (no config file)"
	if config.Exists() {
		status = "loaded"
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderKeyValues([][2]string{
		{"Config file", config.Path()},
		{"Status", status},
	}))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [general]")
	fmt.Fprint(out, cli.RenderKeyValues([][2]string{
		{"  Default prompts/day", strconv.Itoa(cfg.General.DefaultPromptsPerDay)},
		{"  Bucket mode", cfg.General.BucketMode},
	}))
	fmt.Fprintln(out, "  [appearance]")
	fmt.Fprint(out, cli.RenderKeyValues([][2]string{{"  Theme", cfg.Appearance.Theme}}))
	fmt.Fprintln(out, "  [server]")
	fmt.Fprint(out, cli.RenderKeyValues([][2]string{{"  Address", cfg.Server.Addr}}))

	if len(cfg.Pricing.Overrides) > 0 {
		fmt.Fprintln(out, "  [pricing.overrides]")
		for _, id := range sortedKeys(cfg.Pricing.Overrides) {
			o := cfg.Pricing.Overrides[id]
			fmt.Fprintf(out, "    %-16s input %s  output %s\n", id, optFloat(o.InputPer1K), optFloat(o.OutputPer1K))
		}
	}
	if len(cfg.Subscriptions.Overrides) > 0 {
		fmt.Fprintln(out, "  [subscriptions.overrides]")
		for _, id := range sortedKeys(cfg.Subscriptions.Overrides) {
			fmt.Fprintf(out, "    %-16s monthly %s\n", id, optFloat(cfg.Subscriptions.Overrides[id].MonthlyCost))
		}
	}
	if n := len(cfg.Catalog.Areas) + len(cfg.Catalog.Models) + len(cfg.Catalog.Subscriptions); n > 0 {
		fmt.Fprintf(out, "  [catalog] %d areas, %d models, %d subscriptions added or replaced\n",
			len(cfg.Catalog.Areas), len(cfg.Catalog.Models), len(cfg.Catalog.Subscriptions))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Run `payg setup` to reconfigure.")
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func optFloat(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
