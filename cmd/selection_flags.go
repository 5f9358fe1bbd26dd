package cmd

import (
	"errors"
	"log/slog"

	"github.com/theirongolddev/payg/internal/catalog"
	"github.com/theirongolddev/payg/internal/config"
	"github.com/theirongolddev/payg/internal/model"
	"github.com/theirongolddev/payg/internal/scenario"
	"github.com/theirongolddev/payg/internal/selection"

	"github.com/spf13/cobra"
)

// selectionFlags are the --area/--use/--scenario flags shared by commands
// that run a calculation.
type selectionFlags struct {
	areas    []string
	uses     []string
	scenario string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.areas, "area", "a", nil, "Usage area ID (repeatable or comma-separated)")
	cmd.Flags().StringArrayVarP(&f.uses, "use", "u", nil, "Model usage as model[:prompts_per_day[:subscription]] (repeatable)")
	cmd.Flags().StringVarP(&f.scenario, "scenario", "s", "", "Scenario file (.toml, .yaml, .yml or .json)")
}

func (f *selectionFlags) empty() bool {
	return len(f.areas) == 0 && len(f.uses) == 0 && f.scenario == ""
}

// file merges the scenario file, if any, with the command-line flags.
func (f *selectionFlags) file() (scenario.File, error) {
	var out scenario.File
	if f.scenario != "" {
		loaded, err := scenario.Load(f.scenario)
		if err != nil {
			return scenario.File{}, err
		}
		slog.Debug("scenario loaded", "path", f.scenario, "areas", len(loaded.Areas), "usages", len(loaded.Usages))
		out = loaded
	}

	extra := scenario.File{Areas: f.areas}
	var errs []error
	for _, u := range f.uses {
		spec, err := scenario.ParseUse(u)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		extra.Usages = append(extra.Usages, spec)
	}
	if err := errors.Join(errs...); err != nil {
		return scenario.File{}, err
	}
	return out.Merge(extra), nil
}

// resolve builds the selection and picks the bucket mode. --mode wins over
// the scenario, which wins over config.
func (f *selectionFlags) resolve(cfg config.Config, cat catalog.Catalog) (*selection.State, model.BucketMode, error) {
	file, err := f.file()
	if err != nil {
		return nil, "", err
	}
	mode, err := resolveMode(cfg, file)
	if err != nil {
		return nil, "", err
	}
	sel, err := file.Resolve(cat, cfg.General.DefaultPromptsPerDay)
	if err != nil {
		return nil, "", err
	}
	return sel, mode, nil
}

func resolveMode(cfg config.Config, file scenario.File) (model.BucketMode, error) {
	if flagMode != "" {
		return model.ParseBucketMode(flagMode)
	}
	def, err := model.ParseBucketMode(cfg.General.BucketMode)
	if err != nil {
		return "", err
	}
	return file.BucketMode(def)
}
