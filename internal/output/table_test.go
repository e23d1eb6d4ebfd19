// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelsoft/riskcalc/internal/engine"
	"github.com/sentinelsoft/riskcalc/internal/types"
)

// makeTestAssessment builds an assessment with 3 scored assets and one
// scenario for table tests.
func makeTestAssessment() *engine.Assessment {
	return &engine.Assessment{
		ID: "a2f1c9e0-0000-0000-0000-000000000001",
		Results: []types.RiskCalculationResult{
			{
				AssetID:                  "srv-001",
				TotalRiskScore:           92.5,
				VulnerabilityRisk:        68.0,
				ExposureRisk:             85.0,
				CriticalityMultiplier:    2.0,
				ThreatIntelligenceFactor: 1.94,
				Recommendations:          []string{"URGENT: Patch 2 critical vulnerabilities immediately"},
			},
			{
				AssetID:                  "srv-002",
				TotalRiskScore:           55.0,
				VulnerabilityRisk:        40.0,
				ExposureRisk:             30.0,
				CriticalityMultiplier:    1.5,
				ThreatIntelligenceFactor: 1.0,
				Recommendations:          []string{"Update outdated system patches"},
			},
			{
				AssetID:                  "srv-003",
				TotalRiskScore:           12.0,
				VulnerabilityRisk:        10.0,
				ExposureRisk:             5.0,
				CriticalityMultiplier:    0.5,
				ThreatIntelligenceFactor: 1.0,
			},
		},
		Scenarios: []types.RiskScenario{
			{
				ID:                "rs_exploit_srv-001",
				Title:             "Active Exploitation Risk: payments-db",
				Severity:          types.SeverityCritical,
				Likelihood:        types.LikelihoodLikely,
				Impact:            types.ImpactSignificant,
				AffectedAssetIDs:  []string{"srv-001"},
				BusinessRiskScore: 100.0,
				DetectionCoverage: 60.0,
			},
		},
		Summary: types.Summary{
			TotalAssets:          3,
			TotalVulnerabilities: 5,
			AverageRiskScore:     53.166,
			CriticalAssets:       1,
			MediumRiskAssets:     1,
			LowRiskAssets:        1,
			RiskScenarios:        1,
		},
	}
}

func TestTableOutput_AssetRanking(t *testing.T) {
	a := makeTestAssessment()
	cfg := TableConfig{ShowScenarios: true}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, a, nil, cfg))

	output := buf.String()

	// Verify the summary line.
	assert.Contains(t, output, "Asset Risk Ranking")
	assert.Contains(t, output, "===")
	assert.Contains(t, output, "Assets: 3 (Critical: 1, High: 0, Medium: 1, Low: 1)")
	assert.Contains(t, output, "Average Risk: 53.2")

	// Verify box-drawing characters.
	for _, ch := range []string{"┌", "┘", "│", "├"} {
		assert.Contains(t, output, ch)
	}

	// Verify header columns.
	for _, col := range []string{"Asset", "Risk Score", "Level", "Vuln Risk",
		"Exposure", "Criticality", "Threat", "Top Recommendation"} {
		assert.Contains(t, output, col)
	}

	// Verify data content.
	for _, expected := range []string{
		"srv-001", "92.5", "Critical", "2.0x", "1.94x",
		"srv-002", "55.0", "Medium",
		"srv-003", "12.0", "Low",
	} {
		assert.Contains(t, output, expected)
	}
}

func TestTableOutput_ScenarioSection(t *testing.T) {
	a := makeTestAssessment()
	cfg := TableConfig{ShowScenarios: true}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, a, nil, cfg))

	output := buf.String()
	assert.Contains(t, output, "Risk Scenarios (Total: 1)")
	assert.Contains(t, output, "Active Exploitation Risk: payments-db")
	assert.Contains(t, output, "Likely")
	assert.Contains(t, output, "100.0")
	assert.Contains(t, output, "60%")
}

func TestTableOutput_ScenariosHidden(t *testing.T) {
	a := makeTestAssessment()
	cfg := TableConfig{ShowScenarios: false}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, a, nil, cfg))

	output := buf.String()
	assert.NotContains(t, output, "Risk Scenarios")
	assert.Contains(t, output, "Asset Risk Ranking")
}

func TestTableOutput_EnsembleSection(t *testing.T) {
	a := makeTestAssessment()
	ensembles := []types.EnsembleRiskScore{
		{
			AssetID:            "srv-001",
			Score:              94.37,
			Confidence:         0.98,
			ConfidenceInterval: types.ConfidenceInterval{Lower: 88.1, Upper: 100.0},
			RiskLevel:          "High",
			ModelAgreement:     1.0,
			PrecisionTier:      types.TierUltraHigh,
		},
	}
	cfg := TableConfig{ShowEnsemble: true}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, a, ensembles, cfg))

	output := buf.String()
	assert.Contains(t, output, "Ensemble Confidence Scores")
	assert.Contains(t, output, "94.37")
	assert.Contains(t, output, "[88.1, 100.0]")
	assert.Contains(t, output, "98%")
	assert.Contains(t, output, "ultra_high")
}

func TestTableOutput_EnsembleHiddenWhenEmpty(t *testing.T) {
	a := makeTestAssessment()
	cfg := TableConfig{ShowEnsemble: true}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, a, nil, cfg))

	assert.NotContains(t, buf.String(), "Ensemble Confidence Scores")
}

func TestTableOutput_SortByAsset(t *testing.T) {
	a := makeTestAssessment()
	// Reverse the pre-sorted order so sorting is observable.
	a.Results[0], a.Results[2] = a.Results[2], a.Results[0]
	cfg := TableConfig{SortBy: "asset"}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, a, nil, cfg))

	assertOrder(t, buf.String(), "srv-001", "srv-002", "srv-003")
}

func TestTableOutput_SortByScore(t *testing.T) {
	a := makeTestAssessment()
	a.Results[0], a.Results[2] = a.Results[2], a.Results[0]
	cfg := TableConfig{SortBy: "score"}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, a, nil, cfg))

	assertOrder(t, buf.String(), "srv-001", "srv-002", "srv-003")
}

func TestTableOutput_PreserveOrder(t *testing.T) {
	a := makeTestAssessment()
	a.Results[0], a.Results[2] = a.Results[2], a.Results[0]
	cfg := TableConfig{SortBy: ""}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, a, nil, cfg))

	assertOrder(t, buf.String(), "srv-003", "srv-002", "srv-001")
}

func TestTableOutput_EmptyAssessment(t *testing.T) {
	a := &engine.Assessment{}
	cfg := TableConfig{ShowScenarios: true, ShowEnsemble: true}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, a, nil, cfg))

	output := buf.String()

	// Header-only box, no scenario or ensemble sections.
	assert.Contains(t, output, "┌")
	assert.Contains(t, output, "Asset Risk Ranking")
	assert.Contains(t, output, "Assets: 0")
	assert.NotContains(t, output, "Risk Scenarios")
	assert.NotContains(t, output, "Ensemble Confidence Scores")
}

func TestTableOutput_RecommendationTruncation(t *testing.T) {
	a := makeTestAssessment()
	a.Results[0].Recommendations = []string{
		"This is a very long remediation instruction that exceeds the maximum word count and should be truncated with ellipsis at the end",
	}
	cfg := TableConfig{}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, a, nil, cfg))

	output := buf.String()
	assert.Contains(t, output, "...")
	assert.NotContains(t, output, "at the end")
}

func TestTableOutput_NoRecommendations(t *testing.T) {
	a := makeTestAssessment()
	cfg := TableConfig{}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, a, nil, cfg))

	// srv-003 has no recommendations; its cell renders as "-".
	assert.Contains(t, buf.String(), "-")
}

func TestScoreLevel_Buckets(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "Critical"},
		{90, "Critical"},
		{89.999, "High"},
		{70, "High"},
		{69.999, "Medium"},
		{40, "Medium"},
		{39.999, "Low"},
		{0, "Low"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreLevel(tt.score), "score %v", tt.score)
	}
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "short text", truncateWords("short text", 12))
	assert.Equal(t, "a b c...", truncateWords("a b c d", 3))
	assert.Equal(t, "", truncateWords("", 12))
}

// assertOrder verifies that the given substrings appear in order.
func assertOrder(t *testing.T, output string, parts ...string) {
	t.Helper()
	last := -1
	for _, p := range parts {
		idx := strings.Index(output, p)
		require.NotEqual(t, -1, idx, "missing %q", p)
		assert.Greater(t, idx, last, "%q out of order", p)
		last = idx
	}
}
