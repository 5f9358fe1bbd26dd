package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/theirongolddev/payg/internal/cli"
	"github.com/theirongolddev/payg/internal/config"
	"github.com/theirongolddev/payg/internal/model"
	"github.com/theirongolddev/payg/internal/pipeline"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file|dir>...",
	Short: "Evaluate many scenario files and rank them by savings",
	Example: `  payg batch scenarios/
  payg batch team.toml solo.yaml --mode accumulate --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, cat, err := loadEnvironment()
	if err != nil {
		return err
	}
	opts, err := batchOptions(cfg)
	if err != nil {
		return err
	}
	opts.Catalog = cat

	paths, err := pipeline.Expand(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no scenario files found")
	}

	progressFn := func(current, total int) {
		if flagQuiet || flagJSON {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Evaluating [%d/%d]", current, total)
	}
	result := pipeline.Load(paths, opts, progressFn)
	if !flagQuiet && !flagJSON {
		fmt.Fprintf(os.Stderr, "\r  Evaluated %d of %d scenarios    \n", result.Evaluated, result.TotalFiles)
	}
	for _, r := range result.Results {
		if r.Err != nil {
			slog.Warn("scenario skipped", "path", r.Path, "err", r.Err)
		}
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		err = writeJSON(out, result)
	} else {
		renderBatch(out, result)
	}
	if err != nil {
		return err
	}
	if result.Evaluated == 0 {
		return errors.New("every scenario failed")
	}
	return nil
}

// batchOptions applies --mode to every file; otherwise each scenario's own
// mode wins over config.
func batchOptions(cfg config.Config) (pipeline.Options, error) {
	def, err := model.ParseBucketMode(cfg.General.BucketMode)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("config: %w", err)
	}
	opts := pipeline.Options{DefaultPrompts: cfg.General.DefaultPromptsPerDay, Mode: def}
	if flagMode != "" {
		if opts.Force, err = model.ParseBucketMode(flagMode); err != nil {
			return pipeline.Options{}, err
		}
	}
	return opts, nil
}

func renderBatch(w io.Writer, result *pipeline.LoadResult) {
	ranked := pipeline.RankBySavings(result.Results)

	rows := make([][]string, 0, len(ranked))
	for i, r := range ranked {
		res := r.Result
		rows = append(rows, []string{
			fmt.Sprintf("%d. %s", i+1, r.Path),
			string(res.Mode),
			cli.FormatNumber(res.TotalMonthlyPrompts()),
			cli.FormatCost(res.PayAsYouGoCost),
			cli.FormatCost(res.SubscriptionCost),
			cli.FormatSavings(res.Savings.MonthlySavings),
			cli.FormatPercent(res.Savings.SavingsPercentage),
		})
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Title:   "Scenarios by Savings (monthly)",
		Headers: []string{"Scenario", "Mode", "Prompts", "PAYG", "Plans", "Savings", "%"},
		Rows:    rows,
	}))

	if result.FileErrors > 0 {
		fmt.Fprintln(w)
		for _, r := range result.Results {
			if r.Err != nil {
				fmt.Fprintf(w, "  skipped: %s\n", r.Error)
			}
		}
	}
	fmt.Fprintln(w)
}
