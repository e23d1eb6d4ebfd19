// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelsoft/riskcalc/internal/types"
)

func TestWriteJSON_Assessment(t *testing.T) {
	a := makeTestAssessment()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, a))

	output := buf.Bytes()

	// Verify it is valid JSON.
	var parsed map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(output, &parsed))

	// Verify indentation (should start with "{\n  ").
	assert.True(t, bytes.HasPrefix(output, []byte("{\n  ")), "output is not indented as expected")

	for _, key := range []string{"id", "results", "scenarios", "summary"} {
		assert.Contains(t, parsed, key)
	}

	var results []types.RiskCalculationResult
	require.NoError(t, json.Unmarshal(parsed["results"], &results))
	require.Len(t, results, 3)
	assert.Equal(t, "srv-001", results[0].AssetID)
	assert.Equal(t, 92.5, results[0].TotalRiskScore)

	var summary types.Summary
	require.NoError(t, json.Unmarshal(parsed["summary"], &summary))
	assert.Equal(t, 3, summary.TotalAssets)
	assert.Equal(t, 1, summary.CriticalAssets)
}

func TestWriteJSON_EnsembleScore(t *testing.T) {
	score := types.EnsembleRiskScore{
		AssetID:            "srv-001",
		Score:              94.37,
		Confidence:         0.98,
		Uncertainty:        0.02,
		ConfidenceInterval: types.ConfidenceInterval{Lower: 88.1, Upper: 100.0},
		RiskLevel:          "High",
		ModelAgreement:     1.0,
		ValidationPassed:   true,
		PrecisionTier:      types.TierUltraHigh,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, score))

	var parsed types.EnsembleRiskScore
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, score, parsed)
}

func TestWriteJSON_EscapeHTML(t *testing.T) {
	// Verify SetEscapeHTML(false) works: ampersands should not be escaped.
	data := map[string]string{
		"url": "https://example.com/path?a=1&b=2",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, data))

	output := buf.String()
	assert.NotContains(t, output, `&`)
}
