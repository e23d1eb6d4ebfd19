// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package scoring

import (
	"fmt"
	"sort"

	"github.com/sentinelsoft/riskcalc/internal/types"
)

// Component weights for the total risk formula. They intentionally do not
// sum to 1; the weighted sum is re-normalized by weightSum.
const (
	weightVulnSeverity = 0.35
	weightExposure     = 0.10
	weightCriticality  = 0.20
	weightThreatIntel  = 0.10

	weightSum = weightVulnSeverity + weightExposure + weightCriticality + weightThreatIntel

	// topVulnWeight overweights the single worst vulnerability so one
	// critical flaw cannot be diluted by many minor ones. The remaining
	// scores split the leftover weight evenly.
	topVulnWeight = 0.6

	maxRecommendations = 5
)

// noVulnRecommendation is returned as the sole recommendation for assets
// with no resolvable vulnerabilities.
const noVulnRecommendation = "No vulnerabilities detected. Continue regular scanning."

// Options controls aggregation behavior.
type Options struct {
	// SingleCriticalityApplication switches the total-risk formula to apply
	// the asset criticality multiplier only inside the weighted sum. The
	// default (false) reproduces the historical behavior of applying it a
	// second time to the normalized total, which weights high-criticality
	// assets aggressively. Which variant is correct is a system-owner
	// decision; both are implemented and tested.
	SingleCriticalityApplication bool
}

// ScoreAsset computes the full risk calculation result for one asset from
// its resolvable vulnerabilities. Dangling vulnerability references must be
// filtered by the caller; vulns holds only resolved records. The computed
// total is written back to asset.RiskScore — the only mutation the scoring
// layer performs on shared entities.
func ScoreAsset(asset *types.Asset, vulns []*types.Vulnerability, intel types.ThreatIntel, opts Options) *types.RiskCalculationResult {
	if len(vulns) == 0 {
		asset.RiskScore = 0
		return &types.RiskCalculationResult{
			AssetID:                     asset.ID,
			CriticalityMultiplier:       1.0,
			ThreatIntelligenceFactor:    1.0,
			ContributingVulnerabilities: []string{},
			RiskFactors:                 map[string]float64{},
			Recommendations:             []string{noVulnRecommendation},
		}
	}

	scores := make([]float64, len(vulns))
	for i, v := range vulns {
		scores[i] = VulnerabilityScore(v, intel)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	vulnerabilityRisk := scores[0]
	if len(scores) > 1 {
		vulnerabilityRisk = scores[0] * topVulnWeight
		remaining := (1 - topVulnWeight) / float64(len(scores)-1)
		for _, s := range scores[1:] {
			vulnerabilityRisk += s * remaining
		}
	}

	exposureRisk := ExposureRisk(asset)
	criticalityMult := criticalityMultiplier(asset.Criticality)
	threatFactor := threatFactor(vulns, intel)

	total := (vulnerabilityRisk*weightVulnSeverity +
		exposureRisk*weightExposure +
		vulnerabilityRisk*criticalityMult*weightCriticality +
		vulnerabilityRisk*threatFactor*weightThreatIntel) / weightSum

	if !opts.SingleCriticalityApplication {
		total *= criticalityMult
	}
	total = clamp(total, 0, 100)

	asset.RiskScore = total

	var criticalCount, highCount float64
	for _, v := range vulns {
		switch v.Severity {
		case types.SeverityCritical:
			criticalCount++
		case types.SeverityHigh:
			highCount++
		}
	}

	contributing := make([]string, len(vulns))
	for i, v := range vulns {
		contributing[i] = v.ID
	}

	return &types.RiskCalculationResult{
		AssetID:                     asset.ID,
		TotalRiskScore:              total,
		VulnerabilityRisk:           vulnerabilityRisk,
		ExposureRisk:                exposureRisk,
		CriticalityMultiplier:       criticalityMult,
		ThreatIntelligenceFactor:    threatFactor,
		ContributingVulnerabilities: contributing,
		RiskFactors: map[string]float64{
			"vulnerability_base":       vulnerabilityRisk,
			"exposure":                 exposureRisk,
			"criticality":              criticalityMult,
			"threat_intelligence":      threatFactor,
			"total_vulnerabilities":    float64(len(vulns)),
			"critical_vulnerabilities": criticalCount,
			"high_vulnerabilities":     highCount,
		},
		Recommendations: recommendations(asset, vulns),
	}
}

// ExposureRisk scores non-vulnerability attack-surface factors: internet
// exposure, sensitive data, patch hygiene, antivirus state, and the host
// firewall. Clamped to 100.
func ExposureRisk(asset *types.Asset) float64 {
	score := 0.0
	if asset.ExposedToInternet {
		score += 30
	}
	if asset.ContainsSensitiveData {
		score += 25
	}
	score += patchPenalty(asset.PatchLevel)
	score += antivirusPenalty(asset.AntivirusStatus)
	if !asset.FirewallEnabled {
		score += 15
	}
	return clamp(score, 0, 100)
}

func patchPenalty(p types.PatchLevel) float64 {
	switch p {
	case types.PatchLevelCurrent:
		return 0
	case types.PatchLevelOutdated:
		return 15
	case types.PatchLevelCritical:
		return 30
	case types.PatchLevelUnknown:
		return 20
	default:
		return 20
	}
}

func antivirusPenalty(s types.AntivirusStatus) float64 {
	switch s {
	case types.AntivirusActive:
		return 0
	case types.AntivirusOutdated:
		return 10
	case types.AntivirusInactive:
		return 20
	case types.AntivirusUnknown:
		return 15
	default:
		return 15
	}
}

func criticalityMultiplier(c types.Criticality) float64 {
	switch c {
	case types.CriticalityMissionCritical:
		return 2.0
	case types.CriticalityHigh:
		return 1.5
	case types.CriticalityMedium:
		return 1.0
	case types.CriticalityLow:
		return 0.5
	default:
		return 1.0
	}
}

// threatFactor is 1 plus the highest threat-intel score among the asset's
// vulnerabilities with a known CVE, or 1.0 when none has an intel entry.
func threatFactor(vulns []*types.Vulnerability, intel types.ThreatIntel) float64 {
	max := -1.0
	for _, v := range vulns {
		if v.CVEID == "" {
			continue
		}
		if score, ok := intel[v.CVEID]; ok && score > max {
			max = score
		}
	}
	if max < 0 {
		return 1.0
	}
	return 1.0 + max
}

// recommendations emits actionable items in priority order, each only when
// its trigger condition holds, truncated to the first five.
func recommendations(asset *types.Asset, vulns []*types.Vulnerability) []string {
	var critical, high, publicExploit int
	for _, v := range vulns {
		switch v.Severity {
		case types.SeverityCritical:
			critical++
		case types.SeverityHigh:
			high++
		}
		if v.ExploitPublic {
			publicExploit++
		}
	}

	recs := make([]string, 0, maxRecommendations)
	if critical > 0 {
		recs = append(recs, fmt.Sprintf("URGENT: Patch %d critical vulnerabilities immediately", critical))
	}
	if high > 0 {
		recs = append(recs, fmt.Sprintf("Prioritize patching %d high-severity vulnerabilities", high))
	}
	if publicExploit > 0 {
		recs = append(recs, fmt.Sprintf("Address %d vulnerabilities with public exploits", publicExploit))
	}
	if asset.ExposedToInternet {
		recs = append(recs, "Consider reducing internet exposure or implementing additional network controls")
	}
	if asset.PatchLevel == types.PatchLevelOutdated || asset.PatchLevel == types.PatchLevelCritical {
		recs = append(recs, "Update system patches to current level")
	}
	if asset.AntivirusStatus != types.AntivirusActive {
		recs = append(recs, "Ensure antivirus is active and up-to-date")
	}
	if !asset.FirewallEnabled {
		recs = append(recs, "Enable host-based firewall")
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
