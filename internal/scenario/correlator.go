// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

// Package scenario derives structured attack narratives from vulnerability
// and asset correlations: multi-critical chaining on one asset,
// internet-facing breach exposure, and cross-asset lateral movement within
// a location. Correlation reads the risk scores already stored on assets,
// so it must run after a full scoring pass.
package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sentinelsoft/riskcalc/internal/types"
)

// Fixed scenario parameters. Detection coverage is an analyst-supplied
// estimate of how well existing tooling would spot each pattern.
const (
	exploitationDetectionCoverage = 60.0
	breachDetectionCoverage       = 45.0
	lateralDetectionCoverage      = 55.0

	breachBusinessRisk  = 95.0
	lateralBusinessRisk = 75.0

	// lateralRiskThreshold qualifies an asset for a lateral-movement group.
	lateralRiskThreshold = 70.0

	// exploitationRiskScale inflates the asset's own score for the chained
	// exploitation narrative, capped at 100.
	exploitationRiskScale = 1.2
)

// Correlate scans every asset for attack-chain patterns and returns the
// complete scenario list for this pass. The returned slice replaces any
// prior list; there is no cross-pass merge or deduplication. Assets are
// visited in ID order so repeated passes over unchanged inputs produce
// identical output.
func Correlate(assets []*types.Asset, vulns map[string]*types.Vulnerability) []types.RiskScenario {
	scenarios := []types.RiskScenario{}

	ordered := make([]*types.Asset, len(assets))
	copy(ordered, assets)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	for _, asset := range ordered {
		critical := criticalVulnerabilities(asset, vulns)
		if len(critical) >= 2 {
			scenarios = append(scenarios, exploitationScenario(asset, critical))
		}
		if asset.ExposedToInternet && len(critical) > 0 {
			scenarios = append(scenarios, breachScenario(asset, critical))
		}
	}

	scenarios = append(scenarios, lateralMovement(ordered)...)
	return scenarios
}

// criticalVulnerabilities resolves the asset's vulnerability references and
// keeps Critical-severity records, dropping dangling IDs silently.
func criticalVulnerabilities(asset *types.Asset, vulns map[string]*types.Vulnerability) []*types.Vulnerability {
	var critical []*types.Vulnerability
	for _, id := range asset.VulnerabilityIDs {
		v, ok := vulns[id]
		if !ok {
			continue
		}
		if v.Severity == types.SeverityCritical {
			critical = append(critical, v)
		}
	}
	return critical
}

// exploitationScenario describes chaining of multiple critical
// vulnerabilities on one asset into privilege escalation and lateral
// movement.
func exploitationScenario(asset *types.Asset, critical []*types.Vulnerability) types.RiskScenario {
	ids := make([]string, len(critical))
	for i, v := range critical {
		ids[i] = v.ID
	}

	// Name up to three of the correlated vulnerabilities, preferring the
	// CVE id over the internal one.
	names := make([]string, 0, 3)
	for _, v := range critical {
		if len(names) == 3 {
			break
		}
		if v.CVEID != "" {
			names = append(names, v.CVEID)
		} else {
			names = append(names, v.ID)
		}
	}

	return types.RiskScenario{
		ID:                         "rs_exploit_" + asset.ID,
		Title:                      fmt.Sprintf("Multi-Stage Exploitation of %s", asset.DisplayName()),
		Description:                fmt.Sprintf("Multiple critical vulnerabilities on %s could be chained for privilege escalation and lateral movement", asset.DisplayName()),
		Category:                   "Multi-Stage Attack",
		Severity:                   types.SeverityCritical,
		Likelihood:                 types.LikelihoodLikely,
		Impact:                     types.ImpactCatastrophic,
		AffectedAssetIDs:           []string{asset.ID},
		CorrelatedVulnerabilityIDs: ids,
		MITRETactics:               []string{"Initial Access", "Privilege Escalation", "Lateral Movement"},
		MITRETechniques:            []string{"T1190", "T1068", "T1021"},
		BusinessRiskScore:          min(asset.RiskScore*exploitationRiskScale, 100),
		DetectionCoverage:          exploitationDetectionCoverage,
		RemediationPlan:            fmt.Sprintf("1. Immediately patch vulnerabilities %s. 2. Implement network segmentation. 3. Enable EDR monitoring.", strings.Join(names, ", ")),
	}
}

// breachScenario describes an internet-exposed asset carrying at least one
// critical vulnerability.
func breachScenario(asset *types.Asset, critical []*types.Vulnerability) types.RiskScenario {
	ids := make([]string, len(critical))
	for i, v := range critical {
		ids[i] = v.ID
	}
	return types.RiskScenario{
		ID:                         "rs_breach_" + asset.ID,
		Title:                      fmt.Sprintf("Internet-Facing Asset Compromise: %s", asset.DisplayName()),
		Description:                fmt.Sprintf("%s is exposed to the internet with critical vulnerabilities, creating immediate breach risk", asset.DisplayName()),
		Category:                   "Data Breach & Exfiltration",
		Severity:                   types.SeverityCritical,
		Likelihood:                 types.LikelihoodCertain,
		Impact:                     types.ImpactCatastrophic,
		AffectedAssetIDs:           []string{asset.ID},
		CorrelatedVulnerabilityIDs: ids,
		MITRETactics:               []string{"Initial Access", "Execution", "Exfiltration"},
		MITRETechniques:            []string{"T1190", "T1059", "T1041"},
		BusinessRiskScore:          breachBusinessRisk,
		DetectionCoverage:          breachDetectionCoverage,
		RemediationPlan:            "1. Remove internet exposure or place behind WAF. 2. Emergency patch critical CVEs. 3. Implement IDS/IPS rules.",
	}
}

// lateralMovement groups assets by location and flags each location holding
// two or more assets whose stored risk score exceeds the threshold.
func lateralMovement(assets []*types.Asset) []types.RiskScenario {
	groups := make(map[string][]*types.Asset)
	for _, a := range assets {
		loc := a.Location
		if loc == "" {
			loc = "Unknown"
		}
		groups[loc] = append(groups[loc], a)
	}

	locations := make([]string, 0, len(groups))
	for loc := range groups {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	var scenarios []types.RiskScenario
	for _, loc := range locations {
		group := groups[loc]
		if len(group) < 2 {
			continue
		}
		var qualifying []string
		for _, a := range group {
			if a.RiskScore > lateralRiskThreshold {
				qualifying = append(qualifying, a.ID)
			}
		}
		if len(qualifying) < 2 {
			continue
		}
		scenarios = append(scenarios, types.RiskScenario{
			ID:                         "rs_lateral_" + loc,
			Title:                      fmt.Sprintf("Lateral Movement Risk in %s", loc),
			Description:                fmt.Sprintf("Multiple high-risk assets in %s create lateral movement opportunities", loc),
			Category:                   "Unauthorized Lateral Movement",
			Severity:                   types.SeverityHigh,
			Likelihood:                 types.LikelihoodPossible,
			Impact:                     types.ImpactSignificant,
			AffectedAssetIDs:           qualifying,
			CorrelatedVulnerabilityIDs: []string{},
			MITRETactics:               []string{"Lateral Movement", "Discovery"},
			MITRETechniques:            []string{"T1021", "T1018"},
			BusinessRiskScore:          lateralBusinessRisk,
			DetectionCoverage:          lateralDetectionCoverage,
			RemediationPlan:            "1. Implement network segmentation. 2. Enable lateral movement detection. 3. Reduce attack surface.",
		})
	}
	return scenarios
}
