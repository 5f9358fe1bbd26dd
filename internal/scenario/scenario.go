// Package scenario reads saved selections from TOML, YAML or JSON files and
// from command-line flags, and resolves them against a catalog.
package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/theirongolddev/payg/internal/catalog"
	"github.com/theirongolddev/payg/internal/model"
	"github.com/theirongolddev/payg/internal/selection"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// File is the on-disk and over-the-wire form of a selection.
type File struct {
	Mode   string      `toml:"mode,omitempty" yaml:"mode,omitempty" json:"mode,omitempty" jsonschema:"enum=overwrite,enum=accumulate,description=How per-type token totals combine several models of one type"`
	Areas  []string    `toml:"areas" yaml:"areas" json:"areas" jsonschema:"required,minItems=1,description=Usage area IDs"`
	Usages []UsageSpec `toml:"usages" yaml:"usages" json:"usages" jsonschema:"required,minItems=1"`
}

// UsageSpec selects one model with its prompt rate and optional plan.
type UsageSpec struct {
	Model         string `toml:"model" yaml:"model" json:"model" jsonschema:"required,description=Model ID"`
	PromptsPerDay int    `toml:"prompts_per_day,omitempty" yaml:"prompts_per_day,omitempty" json:"prompts_per_day,omitempty" jsonschema:"minimum=1,maximum=1000000"`
	Subscription  string `toml:"subscription,omitempty" yaml:"subscription,omitempty" json:"subscription,omitempty" jsonschema:"description=Subscription ID or none"`
}

// Format identifies a scenario encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported scenario extension %q (want .toml, .yaml, .yml or .json)", filepath.Ext(path))
	}
}

// Load reads and decodes a scenario file.
func Load(path string) (File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return File{}, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the local user
	if err != nil {
		return File{}, fmt.Errorf("reading scenario: %w", err)
	}
	f, err := Decode(data, format)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode parses a scenario in the given format.
func Decode(data []byte, format Format) (File, error) {
	var f File
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &f); err != nil {
			return File{}, fmt.Errorf("parsing toml scenario: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("parsing yaml scenario: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return File{}, fmt.Errorf("parsing json scenario: %w", err)
		}
	default:
		return File{}, fmt.Errorf("unknown scenario format %q", format)
	}
	return f, nil
}

// ParseUse parses a --use flag value of the form
// model[:prompts_per_day[:subscription]].
func ParseUse(s string) (UsageSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 || parts[0] == "" {
		return UsageSpec{}, fmt.Errorf("invalid usage %q (want model[:prompts_per_day[:subscription]])", s)
	}

	spec := UsageSpec{Model: parts[0]}
	if len(parts) > 1 && parts[1] != "" {
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return UsageSpec{}, fmt.Errorf("invalid prompts per day in %q: %w", s, err)
		}
		if err := selection.ValidatePrompts(n); err != nil {
			return UsageSpec{}, fmt.Errorf("invalid prompts per day in %q: %w", s, err)
		}
		spec.PromptsPerDay = n
	}
	if len(parts) > 2 {
		spec.Subscription = parts[2]
	}
	return spec, nil
}

// Merge appends other's areas and usages to f. A non-empty mode in other
// wins.
func (f File) Merge(other File) File {
	out := File{
		Mode:   f.Mode,
		Areas:  append(append([]string(nil), f.Areas...), other.Areas...),
		Usages: append(append([]UsageSpec(nil), f.Usages...), other.Usages...),
	}
	if other.Mode != "" {
		out.Mode = other.Mode
	}
	return out
}

// BucketMode returns the parsed mode, falling back to def when unset.
func (f File) BucketMode(def model.BucketMode) (model.BucketMode, error) {
	if f.Mode == "" {
		return def, nil
	}
	return model.ParseBucketMode(f.Mode)
}

// Resolve builds a selection from f. Usages without a prompt rate get
// defaultPrompts. Duplicate area IDs are ignored; duplicate models are an
// error.
func (f File) Resolve(cat catalog.Catalog, defaultPrompts int) (*selection.State, error) {
	if defaultPrompts <= 0 {
		defaultPrompts = selection.DefaultPromptsPerDay
	}

	s := selection.New()
	var errs []error

	for _, id := range f.Areas {
		a, err := cat.Area(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.SelectArea(a)
	}

	for _, u := range f.Usages {
		m, err := cat.Model(u.Model)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sub, err := cat.Subscription(u.Subscription)
		if err != nil {
			errs = append(errs, fmt.Errorf("model %q: %w", u.Model, err))
			continue
		}
		prompts := u.PromptsPerDay
		if prompts == 0 {
			prompts = defaultPrompts
		}
		if _, err := s.AddUsage(m, prompts, sub); err != nil {
			errs = append(errs, fmt.Errorf("model %q: %w", u.Model, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}
