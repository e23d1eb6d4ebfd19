// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package ensemble

// Strategy is one independent scoring estimator over the shared feature
// vector. Estimates must be in [0,100] and deterministic. Trained models
// can implement this interface later without touching the aggregation or
// gating logic.
type Strategy interface {
	// Name identifies the strategy in diagnostics.
	Name() string
	// Estimate returns a raw risk estimate in [0,100].
	Estimate(f *FeatureVector) float64
}

// DefaultStrategies returns the five built-in estimators in their fixed
// stacking order. The order matters: DefaultWeights applies positionally.
func DefaultStrategies() []Strategy {
	return []Strategy{
		severityPrior{},
		weightedCounts{},
		linearBlend{},
		stateTransition{},
		conservativeRules{},
	}
}

// DefaultWeights are the stacking weights applied to DefaultStrategies in
// order. They sum to 1.
func DefaultWeights() []float64 {
	return []float64{0.25, 0.25, 0.20, 0.15, 0.15}
}

// severityPrior scales the mean CVSS by the exploit ratio and the asset
// criticality prior.
type severityPrior struct{}

func (severityPrior) Name() string { return "severity-prior" }

func (severityPrior) Estimate(f *FeatureVector) float64 {
	base := f.CVSSMean * 10
	exploitFactor := 1 + f.ExploitRatio*0.5
	criticality := f.AssetCriticality / 10
	return clamp(base*exploitFactor*(0.5+criticality), 0, 100)
}

// weightedCounts scores from the severity band counts and active
// exploitation, scaled by criticality.
type weightedCounts struct{}

func (weightedCounts) Name() string { return "weighted-counts" }

func (weightedCounts) Estimate(f *FeatureVector) float64 {
	score := float64(f.VulnCountCritical)*28 +
		float64(f.VulnCountHigh)*16 +
		float64(f.ActivelyExploitedCount)*20
	score *= 0.5 + f.AssetCriticality/10
	return clamp(score, 0, 100)
}

// linearBlend is a fixed-weight linear combination of peak severity,
// exploit ratio, criticality, and exposure.
type linearBlend struct{}

func (linearBlend) Name() string { return "linear-blend" }

func (linearBlend) Estimate(f *FeatureVector) float64 {
	inputs := [4]float64{f.CVSSMax, f.ExploitRatio * 10, f.AssetCriticality, f.AssetExposed * 10}
	weights := [4]float64{8, 15, 7, 10}
	var score float64
	for i := range inputs {
		score += inputs[i] * weights[i]
	}
	return clamp(score, 0, 100)
}

// stateTransition models the mean severity drifting upward under exploit
// pressure.
type stateTransition struct{}

func (stateTransition) Name() string { return "state-transition" }

func (stateTransition) Estimate(f *FeatureVector) float64 {
	current := f.CVSSMean * 10
	next := current * (1 + f.ExploitRatio*0.3)
	return clamp(next, 0, 100)
}

// conservativeRules is an explicit rules table kept deliberately blunt; it
// anchors the ensemble when the statistical estimators drift.
type conservativeRules struct{}

func (conservativeRules) Name() string { return "conservative-rules" }

func (conservativeRules) Estimate(f *FeatureVector) float64 {
	risk := float64(f.VulnCountCritical)*30 +
		float64(f.VulnCountHigh)*15 +
		float64(f.VulnCountMedium)*7 +
		float64(f.VulnCountLow)*2

	switch {
	case f.ActivelyExploitedCount > 0:
		risk *= 1.5
	case f.ExploitPublicCount > 0:
		risk *= 1.3
	case f.ExploitAvailableCount > 0:
		risk *= 1.2
	}

	if f.AssetExposed > 0 {
		risk *= 1.3
	}

	risk *= 0.5 + (f.AssetCriticality/10)*1.5
	return clamp(risk, 0, 100)
}
