package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/payg/internal/calc"
	"github.com/theirongolddev/payg/internal/model"
	"github.com/theirongolddev/payg/internal/tui"

	"github.com/spf13/cobra"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Answer a few questions and compare costs",
	Args:  cobra.NoArgs,
	RunE:  runWizard,
}

func init() {
	rootCmd.AddCommand(wizardCmd)
}

func runWizard(cmd *cobra.Command, _ []string) error {
	cfg, cat, err := loadEnvironment()
	if err != nil {
		return err
	}

	sel, mode, err := tui.RunWizard(cat, cfg)
	if errors.Is(err, tui.ErrWizardAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "  Wizard cancelled.")
		return nil
	}
	if err != nil {
		return err
	}
	if flagMode != "" {
		if mode, err = model.ParseBucketMode(flagMode); err != nil {
			return err
		}
	}

	res, err := sel.Compute(calc.Options{Mode: mode})
	if err != nil {
		return err
	}
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	renderResult(cmd.OutOrStdout(), sel.Areas(), res, cat)
	return nil
}
