package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/payg/internal/calc"
	"github.com/theirongolddev/payg/internal/catalog"
	"github.com/theirongolddev/payg/internal/config"
	"github.com/theirongolddev/payg/internal/model"
	"github.com/theirongolddev/payg/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestSelectionFlags_Resolve(t *testing.T) {
	f := selectionFlags{
		areas: []string{"writing"},
		uses:  []string{"gpt4o:10:chatgptplus"},
	}
	sel, mode, err := f.resolve(config.DefaultConfig(), catalog.Default())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if mode != model.BucketOverwrite {
		t.Fatalf("mode = %s, want overwrite", mode)
	}

	res, err := sel.Compute(calc.Options{Mode: mode})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Savings.MonthlySavings.Equal(decimal.NewFromInt(14)) {
		t.Fatalf("savings = %s, want 14", res.Savings.MonthlySavings)
	}
}

func TestSelectionFlags_MergesScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.yaml")
	body := "mode: accumulate\nareas: [writing]\nusages:\n  - model: gpt4o\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	f := selectionFlags{scenario: path, areas: []string{"programming"}, uses: []string{"claude3haiku:5"}}
	sel, mode, err := f.resolve(config.DefaultConfig(), catalog.Default())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if mode != model.BucketAccumulate {
		t.Fatalf("mode = %s, want accumulate from scenario", mode)
	}
	if len(sel.Areas()) != 2 || len(sel.Usages()) != 2 {
		t.Fatalf("areas=%d usages=%d, want 2 and 2", len(sel.Areas()), len(sel.Usages()))
	}
	u, _ := sel.UsageForModel("gpt4o")
	if u.PromptsPerDay != 10 {
		t.Fatalf("default prompts = %d, want 10", u.PromptsPerDay)
	}
}

func TestSelectionFlags_ModeFlagWins(t *testing.T) {
	flagMode = "accumulate"
	t.Cleanup(func() { flagMode = "" })

	cfg := config.DefaultConfig()
	f := selectionFlags{areas: []string{"writing"}, uses: []string{"gpt4o"}}
	_, mode, err := f.resolve(cfg, catalog.Default())
	if err != nil {
		t.Fatal(err)
	}
	if mode != model.BucketAccumulate {
		t.Fatalf("mode = %s, want accumulate", mode)
	}

	flagMode = "sideways"
	if _, _, err := f.resolve(cfg, catalog.Default()); err == nil {
		t.Fatal("invalid --mode accepted")
	}
}

func TestSelectionFlags_Errors(t *testing.T) {
	tests := []selectionFlags{
		{uses: []string{"gpt4o:abc"}},
		{areas: []string{"knitting"}, uses: []string{"gpt4o"}},
		{areas: []string{"writing"}, uses: []string{"gpt4o", "gpt4o"}},
		{scenario: "missing.toml"},
	}
	for i, f := range tests {
		if _, _, err := f.resolve(config.DefaultConfig(), catalog.Default()); err == nil {
			t.Errorf("case %d: resolve succeeded", i)
		}
	}
}

func TestRenderResult(t *testing.T) {
	f := selectionFlags{areas: []string{"writing"}, uses: []string{"gpt4o:10:chatgptplus"}}
	cat := catalog.Default()
	sel, mode, err := f.resolve(config.DefaultConfig(), cat)
	if err != nil {
		t.Fatal(err)
	}
	res, _ := sel.Compute(calc.Options{Mode: mode})

	var buf bytes.Buffer
	renderResult(&buf, sel.Areas(), res, cat)
	out := ansi.Strip(buf.String())

	for _, want := range []string{"GPT-4o", "ChatGPT Plus", "$6.00", "$20.00", "+$14.00", "70.0%", "120,000", "saves $14.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestExplainWorkedExample(t *testing.T) {
	cat := catalog.Default()
	sel, err := workedExample.Resolve(cat, 10)
	if err != nil {
		t.Fatal(err)
	}
	res, _ := sel.Compute(calc.Options{})

	var buf bytes.Buffer
	explain(&buf, sel.Areas(), sel.Usages(), res)
	out := ansi.Strip(buf.String())

	for _, want := range []string{
		"20/day x 30 days = 600",
		"(400 + 600) / 2 = 500",
		"500 x 600 = 300,000",
		"overwrite mode",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("explain output missing %q\n%s", want, out)
		}
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		sub, payg string
		want      string
	}{
		{"0", "5", "No subscriptions"},
		{"20", "6", "saves $14.00"},
		{"10", "10", "cost the same"},
		{"10", "12.5", "cheaper by $2.50"},
	}
	for _, tt := range tests {
		sub := decimal.RequireFromString(tt.sub)
		payg := decimal.RequireFromString(tt.payg)
		res := model.Result{SubscriptionCost: sub, PayAsYouGoCost: payg, Savings: calc.Savings(sub, payg)}
		if got := verdict(res); !strings.Contains(got, tt.want) {
			t.Errorf("verdict(%s, %s) = %q, want %q", tt.sub, tt.payg, got, tt.want)
		}
	}
}

func TestCatalogTables(t *testing.T) {
	cat := catalog.Default()
	if got := len(areasTable(cat.Areas).Rows); got != len(cat.Areas) {
		t.Fatalf("areas rows = %d", got)
	}
	if got := len(modelsTable(cat.Models).Rows); got != len(cat.Models) {
		t.Fatalf("models rows = %d", got)
	}
	subs := subscriptionsTable(cat.Subscriptions)
	if got := len(subs.Rows); got != len(cat.Subscriptions)+1 {
		t.Fatalf("subscription rows = %d, want catalog plus none", got)
	}
	if subs.Rows[0][0] != catalog.NoSubscriptionID {
		t.Fatalf("first subscription row = %v", subs.Rows[0])
	}
}

func TestBatchOptions_ModeFlag(t *testing.T) {
	opts, err := batchOptions(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if opts.Mode != model.BucketOverwrite || opts.Force != "" {
		t.Fatalf("opts = %+v, want overwrite default and no force", opts)
	}

	flagMode = "accumulate"
	t.Cleanup(func() { flagMode = "" })
	opts, err = batchOptions(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if opts.Force != model.BucketAccumulate {
		t.Fatalf("Force = %q, want accumulate", opts.Force)
	}

	flagMode = "sideways"
	if _, err := batchOptions(config.DefaultConfig()); err == nil {
		t.Fatal("batchOptions accepted an unknown mode")
	}
}

func TestRenderBatch(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	body := "areas = [\"writing\"]\n[[usages]]\nmodel = \"gpt4o\"\nsubscription = \"chatgptplus\"\n"
	if err := os.WriteFile(good, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("areas = [\"nowhere\"]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	opts, err := batchOptions(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	opts.Catalog = catalog.Default()
	result := pipeline.Load([]string{good, bad}, opts, nil)

	var buf bytes.Buffer
	renderBatch(&buf, result)
	out := ansi.Strip(buf.String())
	for _, want := range []string{"Scenarios by Savings", "1. " + good, "$6.00", "+$14.00", "skipped:", "bad.toml"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunBatch_AllFailedExitsNonZero(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.toml"), []byte("areas = [\"nowhere\"]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { flagJSON, flagQuiet = false, false })
	flagQuiet = true

	for _, asJSON := range []bool{false, true} {
		flagJSON = asJSON
		var buf bytes.Buffer
		c := &cobra.Command{}
		c.SetOut(&buf)

		err := runBatch(c, []string{dir})
		if err == nil || !strings.Contains(err.Error(), "every scenario failed") {
			t.Fatalf("json=%v: err = %v, want every scenario failed", asJSON, err)
		}
		if asJSON && !strings.Contains(buf.String(), `"file_errors": 1`) {
			t.Fatalf("json output missing file_errors:\n%s", buf.String())
		}
	}
}
