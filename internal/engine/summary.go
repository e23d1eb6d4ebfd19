// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package engine

import "github.com/sentinelsoft/riskcalc/internal/types"

// Summary bucket boundaries. The four buckets partition [0,100] exactly;
// every asset lands in precisely one.
const (
	criticalBucketMin = 90.0
	highBucketMin     = 70.0
	mediumBucketMin   = 40.0
)

// summarize reduces the stored per-asset scores to portfolio counts and
// the portfolio mean. Callers hold the engine lock.
func summarize(assets []*types.Asset, vulnCount, scenarioCount int) types.Summary {
	s := types.Summary{
		TotalAssets:          len(assets),
		TotalVulnerabilities: vulnCount,
		RiskScenarios:        scenarioCount,
	}
	if len(assets) == 0 {
		return s
	}
	var sum float64
	for _, a := range assets {
		sum += a.RiskScore
		switch {
		case a.RiskScore >= criticalBucketMin:
			s.CriticalAssets++
		case a.RiskScore >= highBucketMin:
			s.HighRiskAssets++
		case a.RiskScore >= mediumBucketMin:
			s.MediumRiskAssets++
		default:
			s.LowRiskAssets++
		}
	}
	s.AverageRiskScore = sum / float64(len(assets))
	return s
}
