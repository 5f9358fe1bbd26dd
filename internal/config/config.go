// Package config loads and saves payg settings from a TOML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config holds all payg configuration.
type Config struct {
	General       GeneralConfig         `toml:"general"`
	Appearance    AppearanceConfig      `toml:"appearance"`
	Server        ServerConfig          `toml:"server"`
	Pricing       PricingOverrides      `toml:"pricing"`
	Subscriptions SubscriptionOverrides `toml:"subscriptions"`
	Catalog       CatalogConfig         `toml:"catalog"`
}

// GeneralConfig holds calculation defaults.
type GeneralConfig struct {
	DefaultPromptsPerDay int    `toml:"default_prompts_per_day"`
	BucketMode           string `toml:"bucket_mode"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// PricingOverrides allows user-defined pricing for specific models.
type PricingOverrides struct {
	Overrides map[string]ModelPricingOverride `toml:"overrides,omitempty"`
}

// ModelPricingOverride holds per-model price overrides in USD per 1000 tokens.
type ModelPricingOverride struct {
	InputPer1K  *float64 `toml:"input_per_1k,omitempty"`
	OutputPer1K *float64 `toml:"output_per_1k,omitempty"`
}

// SubscriptionOverrides allows user-defined monthly plan costs.
type SubscriptionOverrides struct {
	Overrides map[string]SubscriptionOverride `toml:"overrides,omitempty"`
}

// SubscriptionOverride holds a monthly cost override in USD.
type SubscriptionOverride struct {
	MonthlyCost *float64 `toml:"monthly_cost,omitempty"`
}

// CatalogConfig adds or replaces reference catalog entries by ID.
type CatalogConfig struct {
	Areas         []AreaEntry         `toml:"areas,omitempty"`
	Models        []ModelEntry        `toml:"models,omitempty"`
	Subscriptions []SubscriptionEntry `toml:"subscriptions,omitempty"`
}

// AreaEntry describes a usage area.
type AreaEntry struct {
	ID              string   `toml:"id"`
	Name            string   `toml:"name"`
	AvgInputTokens  int64    `toml:"avg_input_tokens"`
	AvgOutputTokens int64    `toml:"avg_output_tokens"`
	ModelTypes      []string `toml:"model_types"`
}

// ModelEntry describes a model and its per-1000-token prices.
type ModelEntry struct {
	ID          string  `toml:"id"`
	Name        string  `toml:"name"`
	InputPer1K  float64 `toml:"input_per_1k"`
	OutputPer1K float64 `toml:"output_per_1k"`
	Type        string  `toml:"type"`
	Provider    string  `toml:"provider"`
}

// SubscriptionEntry describes a monthly plan.
type SubscriptionEntry struct {
	ID          string  `toml:"id"`
	Name        string  `toml:"name"`
	MonthlyCost float64 `toml:"monthly_cost"`
	Provider    string  `toml:"provider"`
}

// EnvOverrides are applied on top of the file config.
type EnvOverrides struct {
	Theme          string `env:"PAYG_THEME"`
	BucketMode     string `env:"PAYG_BUCKET_MODE"`
	Addr           string `env:"PAYG_ADDR"`
	DefaultPrompts int    `env:"PAYG_DEFAULT_PROMPTS"`
	LogLevel       string `env:"PAYG_LOG_LEVEL" envDefault:"info"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultPromptsPerDay: 10,
			BucketMode:           "overwrite",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "payg")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "payg")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist, then
// applies environment overrides.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.General.DefaultPromptsPerDay <= 0 {
		cfg.General.DefaultPromptsPerDay = 10
	}
	return cfg, nil
}

// LoadFile reads the config file without environment overrides. Use it when
// the result is saved back to disk.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays PAYG_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	e, err := ReadEnv()
	if err != nil {
		return err
	}
	if e.Theme != "" {
		cfg.Appearance.Theme = e.Theme
	}
	if e.BucketMode != "" {
		cfg.General.BucketMode = e.BucketMode
	}
	if e.Addr != "" {
		cfg.Server.Addr = e.Addr
	}
	if e.DefaultPrompts > 0 {
		cfg.General.DefaultPromptsPerDay = e.DefaultPrompts
	}
	return nil
}

// ReadEnv parses the PAYG_* environment variables.
func ReadEnv() (EnvOverrides, error) {
	var e EnvOverrides
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("parsing environment: %w", err)
	}
	return e, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SaveDefaults writes the general and appearance sections of cfg over the
// file config and saves it. Other sections keep their on-disk values, so
// environment overrides applied to cfg never reach the file.
func SaveDefaults(cfg Config) error {
	base, err := LoadFile()
	if err != nil {
		return err
	}
	base.General = cfg.General
	base.Appearance = cfg.Appearance
	return Save(base)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
