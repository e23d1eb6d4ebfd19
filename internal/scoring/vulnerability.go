// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

// Package scoring implements the deterministic multi-factor risk scorer:
// a per-vulnerability severity-adjusted score and the per-asset aggregation
// that combines vulnerability scores with exposure, criticality, and threat
// intelligence factors.
package scoring

import (
	"github.com/sentinelsoft/riskcalc/internal/types"
)

// VulnerabilityScore computes a 0-100 risk score for a single vulnerability.
// The base score (cvssScore/10 * 100) is scaled by the severity multiplier,
// exploitability, patch availability, attack vector, and the threat-intel
// factor for the vulnerability's CVE. Pure; monotone non-decreasing in
// CVSSScore with all other fields held fixed.
func VulnerabilityScore(v *types.Vulnerability, intel types.ThreatIntel) float64 {
	base := (v.CVSSScore / 10.0) * 100.0

	sev := severityMultiplier(v.Severity)

	exploit := 1.0
	switch {
	case v.ExploitPublic:
		exploit = 1.5
	case v.ExploitAvailable:
		exploit = 1.3
	}

	patch := 1.0
	if v.PatchAvailable {
		patch = 0.7
	}

	vector := vectorMultiplier(v.AttackVector)

	threat := 1.0
	if v.CVEID != "" {
		if score, ok := intel[v.CVEID]; ok {
			threat = 1.0 + score*0.5
		}
	}

	return clamp(base*sev*exploit*patch*vector*threat, 0, 100)
}

// severityMultiplier scales the CVSS-derived base by the severity label.
// Unrecognized labels fall back to the Medium weight.
func severityMultiplier(s types.Severity) float64 {
	switch s {
	case types.SeverityCritical:
		return 1.0
	case types.SeverityHigh:
		return 0.8
	case types.SeverityMedium:
		return 0.5
	case types.SeverityLow:
		return 0.2
	case types.SeverityInformational:
		return 0.0
	default:
		return 0.5
	}
}

// vectorMultiplier weights the attack vector; an unknown or empty vector is
// neutral.
func vectorMultiplier(v types.AttackVector) float64 {
	switch v {
	case types.VectorNetwork:
		return 1.3
	case types.VectorAdjacent:
		return 1.1
	case types.VectorLocal:
		return 0.9
	case types.VectorPhysical:
		return 0.6
	default:
		return 1.0
	}
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
