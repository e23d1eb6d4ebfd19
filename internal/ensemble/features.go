// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package ensemble

import (
	"time"

	"github.com/sentinelsoft/riskcalc/internal/types"
)

// CVSS thresholds banding vulnerabilities by numeric score rather than by
// severity label, so mislabeled records do not skew the counts.
const (
	cvssCriticalThreshold = 9.0
	cvssHighThreshold     = 7.0
	cvssMediumThreshold   = 4.0
)

// Age thresholds for recent/stale vulnerability counts.
const (
	recentAgeDays = 30
	oldAgeDays    = 365
)

// FeatureVector is the deterministic feature set every scoring strategy
// reads. Extracted once per asset; all values are plain numbers so
// strategies stay closed-form and comparable.
type FeatureVector struct {
	// Severity band counts by CVSS threshold.
	VulnCountTotal    int
	VulnCountCritical int
	VulnCountHigh     int
	VulnCountMedium   int
	VulnCountLow      int

	// CVSS distribution statistics.
	CVSSMean   float64
	CVSSMax    float64
	CVSSStdDev float64
	CVSSMedian float64
	CVSS75th   float64
	CVSS95th   float64

	// Exploit status.
	ExploitAvailableCount  int
	ExploitPublicCount     int
	ActivelyExploitedCount int
	ExploitRatio           float64

	// Vulnerability age in days; all zero when no published dates exist.
	AgeMeanDays float64
	AgeMinDays  float64
	AgeMaxDays  float64
	RecentCount int
	OldCount    int

	// Patch status.
	PatchAvailableCount int
	PatchMissingCount   int
	PatchCoverage       float64

	// Attack vector, complexity, and privilege counts.
	NetworkVectorCount  int
	AdjacentVectorCount int
	LocalVectorCount    int
	LowComplexityCount  int
	HighComplexityCount int
	NoPrivsCount        int
	LowPrivsCount       int
	HighPrivsCount      int

	// Asset-derived encodings. Criticality is on a 1-10 scale; the state
	// encodings are on [0,1] where higher means weaker posture.
	AssetCriticality   float64
	AssetExposed       float64
	AssetSensitiveData float64
	AssetPatchLevel    float64
	AssetAVStatus      float64
	AssetFirewall      float64

	// Composite indicators.
	RiskSurface       float64
	ExploitExposure   float64
	CriticalRemote    float64
	UnpatchedCritical float64

	// Dispersion statistics.
	VulnerabilityDensity float64
	SeverityVariance     float64
	SeveritySkewness     float64
}

// ExtractFeatures builds the feature vector for one asset and its resolved
// vulnerabilities. now anchors the age statistics. Pure and deterministic;
// vulns must be non-empty (the engine short-circuits the no-vulnerability
// case before extraction).
func ExtractFeatures(asset *types.Asset, vulns []*types.Vulnerability, now time.Time) *FeatureVector {
	f := &FeatureVector{VulnCountTotal: len(vulns)}
	total := float64(len(vulns))

	cvss := make([]float64, len(vulns))
	var ages []float64
	for i, v := range vulns {
		cvss[i] = v.CVSSScore
		switch {
		case v.CVSSScore >= cvssCriticalThreshold:
			f.VulnCountCritical++
		case v.CVSSScore >= cvssHighThreshold:
			f.VulnCountHigh++
		case v.CVSSScore >= cvssMediumThreshold:
			f.VulnCountMedium++
		default:
			f.VulnCountLow++
		}

		if v.ExploitAvailable {
			f.ExploitAvailableCount++
		}
		if v.ExploitPublic {
			f.ExploitPublicCount++
		}
		if v.ActivelyExploited {
			f.ActivelyExploitedCount++
		}
		if v.PatchAvailable {
			f.PatchAvailableCount++
		}

		if !v.PublishedDate.IsZero() {
			age := now.Sub(v.PublishedDate).Hours() / 24
			if age < 0 {
				age = 0
			}
			ages = append(ages, age)
		}

		switch v.AttackVector {
		case types.VectorNetwork:
			f.NetworkVectorCount++
		case types.VectorAdjacent:
			f.AdjacentVectorCount++
		case types.VectorLocal:
			f.LocalVectorCount++
		}

		switch v.AttackComplexity {
		case "Low":
			f.LowComplexityCount++
		case "High":
			f.HighComplexityCount++
		}

		switch v.PrivilegesRequired {
		case "None":
			f.NoPrivsCount++
		case "Low":
			f.LowPrivsCount++
		case "High":
			f.HighPrivsCount++
		}
	}

	f.CVSSMean = mean(cvss)
	f.CVSSMax = maxOf(cvss)
	f.CVSSStdDev = stdDev(cvss)
	f.CVSSMedian = median(cvss)
	f.CVSS75th = percentile(cvss, 75)
	f.CVSS95th = percentile(cvss, 95)

	f.ExploitRatio = float64(f.ExploitAvailableCount) / total

	if len(ages) > 0 {
		f.AgeMeanDays = mean(ages)
		f.AgeMinDays = minOf(ages)
		f.AgeMaxDays = maxOf(ages)
		for _, age := range ages {
			if age < recentAgeDays {
				f.RecentCount++
			}
			if age > oldAgeDays {
				f.OldCount++
			}
		}
	}

	f.PatchMissingCount = len(vulns) - f.PatchAvailableCount
	f.PatchCoverage = float64(f.PatchAvailableCount) / total

	f.AssetCriticality = criticalityEncoding(asset.Criticality)
	if asset.ExposedToInternet {
		f.AssetExposed = 1
	}
	if asset.ContainsSensitiveData {
		f.AssetSensitiveData = 1
	}
	f.AssetPatchLevel = patchLevelEncoding(asset.PatchLevel)
	f.AssetAVStatus = antivirusEncoding(asset.AntivirusStatus)
	if !asset.FirewallEnabled {
		f.AssetFirewall = 1
	}

	f.RiskSurface = f.AssetExposed * float64(f.NetworkVectorCount) / total
	f.ExploitExposure = f.ExploitRatio * f.AssetExposed
	f.CriticalRemote = float64(f.VulnCountCritical) * float64(f.NetworkVectorCount) / total

	unpatched := f.VulnCountCritical - f.PatchAvailableCount
	if unpatched < 0 {
		unpatched = 0
	}
	f.UnpatchedCritical = float64(unpatched)

	f.VulnerabilityDensity = total / f.AssetCriticality
	f.SeverityVariance = variance(cvss)
	f.SeveritySkewness = skewness(cvss)

	return f
}

// criticalityEncoding maps the asset criticality onto a 1-10 scale.
// Unrecognized values take the Medium encoding.
func criticalityEncoding(c types.Criticality) float64 {
	switch c {
	case types.CriticalityMissionCritical:
		return 10
	case types.CriticalityHigh:
		return 7
	case types.CriticalityMedium:
		return 4
	case types.CriticalityLow:
		return 1
	default:
		return 4
	}
}

// patchLevelEncoding maps patch hygiene onto [0,1]; above 0.6 the encoding
// indicates weak confidence in the asset's patch state.
func patchLevelEncoding(p types.PatchLevel) float64 {
	switch p {
	case types.PatchLevelCurrent:
		return 0
	case types.PatchLevelOutdated:
		return 0.5
	case types.PatchLevelCritical:
		return 1
	case types.PatchLevelUnknown:
		return 0.7
	default:
		return 0.7
	}
}

func antivirusEncoding(s types.AntivirusStatus) float64 {
	switch s {
	case types.AntivirusActive:
		return 0
	case types.AntivirusOutdated:
		return 0.5
	case types.AntivirusInactive:
		return 1
	case types.AntivirusUnknown:
		return 0.7
	default:
		return 0.7
	}
}
