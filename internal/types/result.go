// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package types

// RiskCalculationResult is the per-asset scoring output. It is recomputed
// wholesale every cycle and never partially updated.
type RiskCalculationResult struct {
	AssetID                     string             `json:"assetId"`
	TotalRiskScore              float64            `json:"totalRiskScore"`
	VulnerabilityRisk           float64            `json:"vulnerabilityRisk"`
	ExposureRisk                float64            `json:"exposureRisk"`
	CriticalityMultiplier       float64            `json:"criticalityMultiplier"`
	ThreatIntelligenceFactor    float64            `json:"threatIntelligenceFactor"`
	ContributingVulnerabilities []string           `json:"contributingVulnerabilities"`
	RiskFactors                 map[string]float64 `json:"riskFactors"`
	Recommendations             []string           `json:"recommendations"`
}

// RiskScenario is a correlated attack narrative derived from vulnerability
// and asset patterns. The full scenario list is replaced on every
// correlation pass.
type RiskScenario struct {
	ID                         string     `json:"id"`
	Title                      string     `json:"title"`
	Description                string     `json:"description"`
	Category                   string     `json:"category"`
	Severity                   Severity   `json:"severity"`
	Likelihood                 Likelihood `json:"likelihood"`
	Impact                     Impact     `json:"impact"`
	AffectedAssetIDs           []string   `json:"affectedAssetIds"`
	CorrelatedVulnerabilityIDs []string   `json:"correlatedVulnerabilityIds"`
	MITRETactics               []string   `json:"mitreTactics"`
	MITRETechniques            []string   `json:"mitreTechniques"`
	BusinessRiskScore          float64    `json:"businessRiskScore"`
	DetectionCoverage          float64    `json:"detectionCoverage"`
	RemediationPlan            string     `json:"remediationPlan"`
}

// Summary is the portfolio-level reduction over all scored assets. The
// risk buckets partition exactly: critical >=90, high [70,90),
// medium [40,70), low <40.
type Summary struct {
	TotalAssets          int     `json:"totalAssets"`
	TotalVulnerabilities int     `json:"totalVulnerabilities"`
	AverageRiskScore     float64 `json:"averageRiskScore"`
	CriticalAssets       int     `json:"criticalAssets"`
	HighRiskAssets       int     `json:"highRiskAssets"`
	MediumRiskAssets     int     `json:"mediumRiskAssets"`
	LowRiskAssets        int     `json:"lowRiskAssets"`
	RiskScenarios        int     `json:"riskScenarios"`
}

// ConfidenceInterval is a symmetric band around an ensemble score. It is a
// conservative margin derived from severity variance, not a strict
// statistical probability.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// EnsembleRiskScore is the quality-gated output of the ensemble confidence
// engine. Score is in [0,100]; Confidence, Uncertainty, and ModelAgreement
// are in [0,1]. Low-agreement results carry PrecisionTier "low" and
// ValidationPassed=false rather than an error.
type EnsembleRiskScore struct {
	AssetID             string             `json:"assetId"`
	Score               float64            `json:"score"`
	Confidence          float64            `json:"confidence"`
	Uncertainty         float64            `json:"uncertainty"`
	ConfidenceInterval  ConfidenceInterval `json:"confidenceInterval"`
	RiskLevel           string             `json:"riskLevel"`
	ContributingFactors map[string]float64 `json:"contributingFactors"`
	ModelAgreement      float64            `json:"modelAgreement"`
	ValidationPassed    bool               `json:"validationPassed"`
	PrecisionTier       PrecisionTier      `json:"precisionTier"`
}
