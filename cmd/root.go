// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/quay/zlog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sentinelsoft/riskcalc/internal/engine"
	"github.com/sentinelsoft/riskcalc/internal/ensemble"
	"github.com/sentinelsoft/riskcalc/internal/input"
	"github.com/sentinelsoft/riskcalc/internal/intel"
	"github.com/sentinelsoft/riskcalc/internal/output"
	"github.com/sentinelsoft/riskcalc/internal/sample"
	"github.com/sentinelsoft/riskcalc/internal/scoring"
	"github.com/sentinelsoft/riskcalc/internal/types"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ExitError signals a non-zero exit code with an optional message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Options holds all CLI flag values.
type Options struct {
	Input             string
	Sample            bool
	Seed              int64
	Format            string
	Output            string
	SortBy            string
	NoScenarios       bool
	Ensemble          bool
	SingleCriticality bool
	FailOnCritical    bool
	FetchIntel        bool
	SkipIntelUpdate   bool
	CacheDir          string
	Debug             bool
}

// NewRootCommand creates the root cobra command with all flags.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:     "riskcalc",
		Short:   "Score asset risk, correlate attack scenarios, and report portfolio summaries",
		Version: Version,
		Long: `riskcalc reads an asset and vulnerability inventory (JSON or YAML),
computes per-asset risk scores and confidence-gated ensemble scores,
correlates cross-asset attack scenarios, and writes a ranked report.

Usage:
  riskcalc --input inventory.yaml --format table
  riskcalc --sample --seed 7 --ensemble --format json -o report.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Input, "input", "i", "", "Inventory file (JSON or YAML); \"-\" or empty reads stdin")
	flags.BoolVar(&opts.Sample, "sample", false, "Score a generated demo inventory instead of reading input")
	flags.Int64Var(&opts.Seed, "seed", 1, "Seed for the demo inventory generator")
	flags.StringVar(&opts.Format, "format", "json", "Output format: json, table")
	flags.StringVarP(&opts.Output, "output", "o", "", "Write to file instead of stdout")
	flags.StringVar(&opts.SortBy, "sort-by", "score", "Sort table by: score, asset")
	flags.BoolVar(&opts.NoScenarios, "no-scenarios", false, "Omit the risk scenario section")
	flags.BoolVar(&opts.Ensemble, "ensemble", false, "Include confidence-gated ensemble scores")
	flags.BoolVar(&opts.SingleCriticality, "single-criticality", false, "Apply the criticality multiplier once instead of twice")
	flags.BoolVar(&opts.FailOnCritical, "fail-on-critical", false, "Exit code 1 if any asset scores in the critical bucket")
	flags.BoolVar(&opts.FetchIntel, "fetch-intel", false, "Fetch KEV/EPSS feeds and merge them into the threat intel")
	flags.BoolVar(&opts.SkipIntelUpdate, "skip-intel-update", false, "Use cached feed data without update check")
	flags.StringVar(&opts.CacheDir, "cache-dir", "", "Override the feed cache directory")
	flags.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")

	return cmd
}

// report is the JSON output document: the assessment plus the optional
// ensemble section.
type report struct {
	*engine.Assessment
	EnsembleScores []types.EnsembleRiskScore `json:"ensembleScores,omitempty"`
}

// run orchestrates the full scoring pipeline.
func run(opts *Options) error {
	level := zerolog.WarnLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level)
	zlog.Set(&logger)
	ctx := logger.WithContext(context.Background())

	inv, err := loadInventory(opts)
	if err != nil {
		return err
	}

	eng := engine.New(engine.Options{
		Scoring: scoring.Options{SingleCriticalityApplication: opts.SingleCriticality},
	})
	for _, v := range inv.Vulnerabilities {
		eng.AddVulnerability(v)
	}
	if opts.FetchIntel {
		feed, err := loadIntelFeeds(opts)
		if err != nil {
			return err
		}
		for cveID, score := range feed {
			eng.AddThreatIntel(cveID, score)
		}
	}
	// Inventory-supplied scores override feed values.
	for cveID, score := range inv.ThreatIntel {
		eng.AddThreatIntel(cveID, score)
	}
	for _, a := range inv.Assets {
		eng.AddAsset(a)
	}

	assessment, err := eng.Recompute(ctx)
	if err != nil {
		return fmt.Errorf("computing assessment: %w", err)
	}

	var ensembles []types.EnsembleRiskScore
	if opts.Ensemble {
		ens := ensemble.New()
		// Follow the ranking order so both sections read top-down.
		for _, res := range assessment.Results {
			a := eng.Asset(res.AssetID)
			ensembles = append(ensembles, ens.Score(a, eng.ResolveVulnerabilities(a), ensemble.Observation{}))
		}
	}

	// Determine output writer.
	var w io.Writer
	if opts.Output != "" && opts.Output != "-" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	switch opts.Format {
	case "json":
		if err := output.WriteJSON(w, report{Assessment: assessment, EnsembleScores: ensembles}); err != nil {
			return err
		}
	case "table":
		tableCfg := output.TableConfig{
			ShowScenarios: !opts.NoScenarios,
			ShowEnsemble:  opts.Ensemble,
			SortBy:        opts.SortBy,
			IsTerminal:    output.IsOutputToTerminal(w),
		}
		if err := output.WriteTable(w, assessment, ensembles, tableCfg); err != nil {
			return err
		}
	default:
		return &ExitError{
			Code:    2,
			Message: fmt.Sprintf("unsupported output format: %s", opts.Format),
		}
	}

	if opts.FailOnCritical && assessment.Summary.CriticalAssets > 0 {
		return &ExitError{
			Code:    1,
			Message: fmt.Sprintf("%d assets in the critical risk bucket", assessment.Summary.CriticalAssets),
		}
	}

	return nil
}

// loadIntelFeeds fetches the KEV and EPSS feeds and returns the merged
// threat-intel snapshot.
func loadIntelFeeds(opts *Options) (types.ThreatIntel, error) {
	cacheDir := opts.CacheDir
	if cacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("determining cache directory: %w", err)
		}
		cacheDir = filepath.Join(base, "riskcalc")
	}

	fetcher := intel.NewFetcher(cacheDir)
	if err := fetcher.Load(opts.SkipIntelUpdate); err != nil {
		return nil, fmt.Errorf("loading threat-intel feeds: %w", err)
	}
	return fetcher.Snapshot(), nil
}

// loadInventory obtains the inventory from the sample generator, a file,
// or stdin.
func loadInventory(opts *Options) (*input.Inventory, error) {
	if opts.Sample {
		return sample.Generate(opts.Seed), nil
	}

	var data []byte
	var err error
	if opts.Input != "" && opts.Input != "-" {
		data, err = os.ReadFile(opts.Input)
		if err != nil {
			return nil, fmt.Errorf("reading input file: %w", err)
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, &ExitError{Code: 2, Message: "no inventory provided"}
	}

	parsed, err := input.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing inventory: %w", err)
	}
	return parsed.Inventory, nil
}
