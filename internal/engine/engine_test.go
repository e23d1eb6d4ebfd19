// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelsoft/riskcalc/internal/scoring"
	"github.com/sentinelsoft/riskcalc/internal/types"
)

func newTestEngine() *Engine {
	e := New(Options{})
	e.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

func addFixture(e *Engine) {
	e.AddVulnerability(&types.Vulnerability{
		ID:               "vuln-001",
		CVEID:            "CVE-2024-3400",
		Severity:         types.SeverityCritical,
		CVSSScore:        10.0,
		AttackVector:     types.VectorNetwork,
		ExploitAvailable: true,
		ExploitPublic:    true,
	})
	e.AddVulnerability(&types.Vulnerability{
		ID:           "vuln-002",
		CVEID:        "CVE-2023-44487",
		Severity:     types.SeverityMedium,
		CVSSScore:    5.3,
		AttackVector: types.VectorNetwork,
	})
	e.AddAsset(&types.Asset{
		ID:                "srv-001",
		Name:              "payments-db",
		Criticality:       types.CriticalityMissionCritical,
		ExposedToInternet: true,
		PatchLevel:        types.PatchLevelOutdated,
		AntivirusStatus:   types.AntivirusInactive,
		Location:          "eu-central-1",
		VulnerabilityIDs:  []string{"vuln-001", "vuln-002"},
	})
	e.AddAsset(&types.Asset{
		ID:          "srv-002",
		Name:        "build-runner",
		Criticality: types.CriticalityLow,
		PatchLevel:  types.PatchLevelCurrent,
		Location:    "eu-central-1",
	})
}

func TestAddAsset_LastWriteWins(t *testing.T) {
	e := newTestEngine()
	e.AddAsset(&types.Asset{ID: "srv-001", Name: "old-name"})
	e.AddAsset(&types.Asset{ID: "srv-001", Name: "new-name"})

	got := e.Asset("srv-001")
	require.NotNil(t, got)
	assert.Equal(t, "new-name", got.Name)

	e.mu.Lock()
	assert.Len(t, e.assets, 1)
	e.mu.Unlock()
}

func TestAddAsset_EmptyLocationDefaultsToUnknown(t *testing.T) {
	e := newTestEngine()
	e.AddAsset(&types.Asset{ID: "srv-001"})
	assert.Equal(t, "Unknown", e.Asset("srv-001").Location)
}

func TestAddThreatIntel_ClampsToUnitInterval(t *testing.T) {
	e := newTestEngine()
	e.AddThreatIntel("CVE-2024-3400", 1.7)
	e.AddThreatIntel("CVE-2023-44487", -0.2)
	e.AddThreatIntel("CVE-2021-44228", 0.94)

	e.mu.Lock()
	defer e.mu.Unlock()
	assert.Equal(t, 1.0, e.intel["CVE-2024-3400"])
	assert.Equal(t, 0.0, e.intel["CVE-2023-44487"])
	assert.Equal(t, 0.94, e.intel["CVE-2021-44228"])
}

func TestResolveVulnerabilities_DropsDanglingReferences(t *testing.T) {
	e := newTestEngine()
	addFixture(e)
	a := e.Asset("srv-001")
	a.VulnerabilityIDs = append(a.VulnerabilityIDs, "vuln-does-not-exist")

	got := e.ResolveVulnerabilities(a)
	require.Len(t, got, 2)
	assert.Equal(t, "vuln-001", got[0].ID)
	assert.Equal(t, "vuln-002", got[1].ID)
}

func TestAttachVulnerabilities_UnionsAndStampsScanDate(t *testing.T) {
	e := newTestEngine()
	addFixture(e)

	e.AttachVulnerabilities("srv-002", "vuln-002", "vuln-002", "vuln-001")
	a := e.Asset("srv-002")
	assert.Equal(t, []string{"vuln-002", "vuln-001"}, a.VulnerabilityIDs)
	assert.Equal(t, e.now(), a.LastScanDate)

	// Attaching to an unknown asset is a no-op.
	e.AttachVulnerabilities("srv-missing", "vuln-001")
	assert.Nil(t, e.Asset("srv-missing"))
}

func TestRecompute_ResultsSortedByScoreDescending(t *testing.T) {
	e := newTestEngine()
	addFixture(e)
	e.AddThreatIntel("CVE-2024-3400", 0.9)

	got, err := e.Recompute(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Results, 2)

	assert.Equal(t, "srv-001", got.Results[0].AssetID)
	assert.Equal(t, "srv-002", got.Results[1].AssetID)
	assert.GreaterOrEqual(t, got.Results[0].TotalRiskScore, got.Results[1].TotalRiskScore)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, e.now(), got.GeneratedAt)
}

func TestRecompute_StoresScoresOnAssets(t *testing.T) {
	e := newTestEngine()
	addFixture(e)

	got, err := e.Recompute(context.Background())
	require.NoError(t, err)

	for _, res := range got.Results {
		assert.Equal(t, res.TotalRiskScore, e.Asset(res.AssetID).RiskScore)
	}
}

func TestRecompute_Deterministic(t *testing.T) {
	build := func() *Engine {
		e := newTestEngine()
		addFixture(e)
		e.AddThreatIntel("CVE-2024-3400", 0.9)
		return e
	}

	first, err := build().Recompute(context.Background())
	require.NoError(t, err)
	second, err := build().Recompute(context.Background())
	require.NoError(t, err)

	// Run IDs and timestamps differ by construction; everything derived
	// from the registries must not.
	first.ID, second.ID = "", ""
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("recompute output differs between identical registries (-first +second):\n%s", diff)
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	e := newTestEngine()
	addFixture(e)

	first, err := e.Recompute(context.Background())
	require.NoError(t, err)
	second, err := e.Recompute(context.Background())
	require.NoError(t, err)

	first.ID, second.ID = "", ""
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second recompute differs from first (-first +second):\n%s", diff)
	}
}

func TestRecompute_ReplacesScenarioList(t *testing.T) {
	e := newTestEngine()
	addFixture(e)

	_, err := e.Recompute(context.Background())
	require.NoError(t, err)
	withVulns := len(e.Scenarios())
	assert.Greater(t, withVulns, 0)

	// Remove the vulnerable asset: the next cycle must not retain its
	// scenarios.
	e.mu.Lock()
	delete(e.assets, "srv-001")
	e.mu.Unlock()

	_, err = e.Recompute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, e.Scenarios())
}

func TestRecompute_CancelledContext(t *testing.T) {
	e := newTestEngine()
	addFixture(e)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Recompute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecompute_EmptyEngine(t *testing.T) {
	e := newTestEngine()
	got, err := e.Recompute(context.Background())
	require.NoError(t, err)

	assert.Empty(t, got.Results)
	assert.Empty(t, got.Scenarios)
	assert.Equal(t, types.Summary{}, got.Summary)
}

func TestSummarize_BucketsPartitionExactly(t *testing.T) {
	mk := func(id string, score float64) *types.Asset {
		return &types.Asset{ID: id, RiskScore: score}
	}
	assets := []*types.Asset{
		mk("a", 95), mk("b", 90), // critical
		mk("c", 89.999), mk("d", 70), // high
		mk("e", 69.999), mk("f", 40), // medium
		mk("g", 39.999), mk("h", 0), // low
	}

	got := summarize(assets, 12, 3)
	assert.Equal(t, 8, got.TotalAssets)
	assert.Equal(t, 12, got.TotalVulnerabilities)
	assert.Equal(t, 3, got.RiskScenarios)
	assert.Equal(t, 2, got.CriticalAssets)
	assert.Equal(t, 2, got.HighRiskAssets)
	assert.Equal(t, 2, got.MediumRiskAssets)
	assert.Equal(t, 2, got.LowRiskAssets)
	total := got.CriticalAssets + got.HighRiskAssets + got.MediumRiskAssets + got.LowRiskAssets
	assert.Equal(t, got.TotalAssets, total)
	// (95+90+89.999+70+69.999+40+39.999+0)/8 = 61.874625
	assert.InEpsilon(t, 61.874625, got.AverageRiskScore, 1e-9)
}

func TestSummary_WithoutRecompute(t *testing.T) {
	e := newTestEngine()
	addFixture(e)

	// Before any cycle every stored score is zero.
	got := e.Summary()
	assert.Equal(t, 2, got.TotalAssets)
	assert.Equal(t, 2, got.TotalVulnerabilities)
	assert.Equal(t, 2, got.LowRiskAssets)
	assert.Zero(t, got.AverageRiskScore)
}

func TestRecompute_SingleCriticalityOption(t *testing.T) {
	run := func(single bool) float64 {
		e := New(Options{Scoring: scoring.Options{SingleCriticalityApplication: single}})
		addFixture(e)
		got, err := e.Recompute(context.Background())
		require.NoError(t, err)
		return got.Results[0].TotalRiskScore
	}

	double := run(false)
	singleApplied := run(true)
	assert.Greater(t, double, singleApplied)
}
