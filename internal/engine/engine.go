// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

// Package engine owns the shared asset, vulnerability, and threat-intel
// registries and runs full recomputation cycles: score every asset, then
// correlate scenarios, then summarize. A cycle is one critical section;
// scenario correlation reads the scores the scoring pass stored on the
// assets, so cycles never interleave.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/quay/zlog"
	"golang.org/x/sync/errgroup"

	"github.com/sentinelsoft/riskcalc/internal/scenario"
	"github.com/sentinelsoft/riskcalc/internal/scoring"
	"github.com/sentinelsoft/riskcalc/internal/types"
)

// Assessment is the output of one full recomputation cycle. Results are
// ordered by total risk score, highest first.
type Assessment struct {
	ID          string                        `json:"id"`
	GeneratedAt time.Time                     `json:"generatedAt"`
	Results     []types.RiskCalculationResult `json:"results"`
	Scenarios   []types.RiskScenario          `json:"scenarios"`
	Summary     types.Summary                 `json:"summary"`
}

// Options configures an Engine.
type Options struct {
	// Scoring is passed through to the asset aggregator.
	Scoring scoring.Options
	// Concurrency caps the number of assets scored in parallel. Zero
	// means GOMAXPROCS.
	Concurrency int
}

// Engine is the single-writer orchestrator. All exported methods are safe
// for concurrent use; Recompute serializes against itself and against the
// registry mutators.
type Engine struct {
	opts Options

	mu        sync.Mutex
	assets    map[string]*types.Asset
	vulns     map[string]*types.Vulnerability
	intel     types.ThreatIntel
	scenarios []types.RiskScenario
	now       func() time.Time
}

// New creates an empty engine.
func New(opts Options) *Engine {
	return &Engine{
		opts:   opts,
		assets: make(map[string]*types.Asset),
		vulns:  make(map[string]*types.Vulnerability),
		intel:  make(types.ThreatIntel),
		now:    time.Now,
	}
}

// AddAsset adds or replaces an asset; re-adding the same ID overwrites in
// place. An empty location defaults to "Unknown".
func (e *Engine) AddAsset(a *types.Asset) {
	if a.Location == "" {
		a.Location = "Unknown"
	}
	e.mu.Lock()
	e.assets[a.ID] = a
	e.mu.Unlock()
}

// AddVulnerability adds or replaces a vulnerability; last write wins.
func (e *Engine) AddVulnerability(v *types.Vulnerability) {
	e.mu.Lock()
	e.vulns[v.ID] = v
	e.mu.Unlock()
}

// AddThreatIntel records the exploited-in-the-wild score for a CVE,
// clamped to [0,1].
func (e *Engine) AddThreatIntel(cveID string, score float64) {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	e.mu.Lock()
	e.intel[cveID] = score
	e.mu.Unlock()
}

// AttachVulnerabilities unions the given vulnerability IDs onto an
// existing asset and refreshes its scan timestamp. Unknown asset IDs are
// ignored.
func (e *Engine) AttachVulnerabilities(assetID string, vulnIDs ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.assets[assetID]
	if !ok {
		return
	}
	known := make(map[string]struct{}, len(a.VulnerabilityIDs))
	for _, id := range a.VulnerabilityIDs {
		known[id] = struct{}{}
	}
	for _, id := range vulnIDs {
		if _, dup := known[id]; !dup {
			a.VulnerabilityIDs = append(a.VulnerabilityIDs, id)
			known[id] = struct{}{}
		}
	}
	a.LastScanDate = e.now()
}

// Asset returns the asset with the given ID, or nil.
func (e *Engine) Asset(id string) *types.Asset {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.assets[id]
}

// Vulnerability returns the vulnerability with the given ID, or nil.
func (e *Engine) Vulnerability(id string) *types.Vulnerability {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vulns[id]
}

// ResolveVulnerabilities returns the asset's resolvable vulnerability
// records, silently dropping dangling references.
func (e *Engine) ResolveVulnerabilities(a *types.Asset) []*types.Vulnerability {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolveLocked(a)
}

func (e *Engine) resolveLocked(a *types.Asset) []*types.Vulnerability {
	var out []*types.Vulnerability
	for _, id := range a.VulnerabilityIDs {
		if v, ok := e.vulns[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Recompute runs one full cycle: score every asset (in parallel), then
// correlate scenarios against the fresh scores, then summarize. The whole
// cycle holds the engine lock so concurrent cycles serialize and readers
// never observe a half-updated state.
func (e *Engine) Recompute(ctx context.Context) (*Assessment, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "engine/Engine/Recompute")

	e.mu.Lock()
	defer e.mu.Unlock()

	start := e.now()
	timer := prometheus.NewTimer(recomputeDuration)
	defer timer.ObserveDuration()

	assets := make([]*types.Asset, 0, len(e.assets))
	for _, a := range e.assets {
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })

	// Independent assets score in parallel: each aggregator call reads the
	// shared maps and writes only its own asset's riskScore.
	results := make([]types.RiskCalculationResult, len(assets))
	eg, egCtx := errgroup.WithContext(ctx)
	concurrency := e.opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	eg.SetLimit(concurrency)
	for i, a := range assets {
		i, a := i, a
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			res := scoring.ScoreAsset(a, e.resolveLocked(a), e.intel, e.opts.Scoring)
			results[i] = *res
			assetsScoredCounter.Add(1)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("scoring assets: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalRiskScore > results[j].TotalRiskScore
	})

	// Correlation must only start once every asset holds its fresh score.
	e.scenarios = scenario.Correlate(assets, e.vulns)
	scenariosEmittedCounter.Add(float64(len(e.scenarios)))

	summary := summarize(assets, len(e.vulns), len(e.scenarios))

	zlog.Info(ctx).
		Int("assets", len(assets)).
		Int("vulnerabilities", len(e.vulns)).
		Int("scenarios", len(e.scenarios)).
		Dur("elapsed", e.now().Sub(start)).
		Msg("recompute cycle complete")

	return &Assessment{
		ID:          uuid.NewString(),
		GeneratedAt: start,
		Results:     results,
		Scenarios:   append([]types.RiskScenario(nil), e.scenarios...),
		Summary:     summary,
	}, nil
}

// Scenarios returns a copy of the scenario list from the most recent
// cycle.
func (e *Engine) Scenarios() []types.RiskScenario {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]types.RiskScenario(nil), e.scenarios...)
}

// Summary recomputes the portfolio summary from the current stored scores
// without running a scoring pass.
func (e *Engine) Summary() types.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	assets := make([]*types.Asset, 0, len(e.assets))
	for _, a := range e.assets {
		assets = append(assets, a)
	}
	return summarize(assets, len(e.vulns), len(e.scenarios))
}
