// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

// Package ensemble re-scores an asset with several independent estimators,
// checks their agreement, and produces a calibrated score with a confidence
// interval, an uncertainty value, and a precision tier. Results that fail
// the agreement gate are labeled low-precision instead of being silently
// trusted.
package ensemble

import (
	"sync"
	"time"

	"github.com/sentinelsoft/riskcalc/internal/types"
)

// Quality gates. Only results meeting all three earn the ultra-high tier.
const (
	minConfidence  = 0.95
	minAgreement   = 0.90
	maxUncertainty = 0.05

	// intervalZ is the z-multiplier for a 99% confidence band.
	intervalZ = 2.576
)

// Risk level labels. The classification is deliberately more conservative
// than the deterministic scorer's: extreme labels require high confidence.
const (
	levelCritical      = "Critical"
	levelHigh          = "High"
	levelMedium        = "Medium"
	levelLow           = "Low"
	levelInformational = "Informational"
	levelUncertain     = "Uncertain"
)

// CompromiseHistory carries optional historical-compromise data for an
// asset.
type CompromiseHistory struct {
	PreviousCompromises int
}

// Observation bundles the optional per-call inputs: prior compromise data
// and a known ground-truth score for offline validation.
type Observation struct {
	History     *CompromiseHistory
	GroundTruth *float64
}

// Engine runs the strategy ensemble. The zero value is not usable; use New.
// Engine methods are safe for concurrent use: scoring itself is pure and
// the rolling history is guarded by a mutex.
type Engine struct {
	strategies []Strategy
	weights    []float64
	calibrator Calibrator
	now        func() time.Time

	mu      sync.Mutex
	history *history
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrategies replaces the default estimators. weights applies
// positionally and should sum to 1; len(weights) must equal
// len(strategies).
func WithStrategies(strategies []Strategy, weights []float64) Option {
	return func(e *Engine) {
		e.strategies = strategies
		e.weights = weights
	}
}

// WithCalibrator replaces the default pass-through calibrator.
func WithCalibrator(c Calibrator) Option {
	return func(e *Engine) { e.calibrator = c }
}

// WithClock overrides the time source used for age features and history
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an ensemble engine with the default five strategies, the
// pass-through calibrator, and an empty prediction history.
func New(opts ...Option) *Engine {
	e := &Engine{
		strategies: DefaultStrategies(),
		weights:    DefaultWeights(),
		calibrator: identityCalibrator{},
		now:        time.Now,
		history:    newHistory(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the quality-gated ensemble risk score for one asset and
// its resolved vulnerabilities.
func (e *Engine) Score(asset *types.Asset, vulns []*types.Vulnerability, obs Observation) types.EnsembleRiskScore {
	if len(vulns) == 0 {
		return zeroRiskScore(asset.ID)
	}

	now := e.now()
	features := ExtractFeatures(asset, vulns, now)

	estimates := make([]float64, len(e.strategies))
	for i, s := range e.strategies {
		estimates[i] = s.Estimate(features)
	}

	agree := agreement(estimates)
	if agree < minAgreement {
		// Disagreeing estimators are not an error; the result is just not
		// trustworthy enough for high-stakes reporting.
		return lowConfidenceScore(asset.ID, estimates, agree)
	}

	var aggregated float64
	for i, est := range estimates {
		aggregated += est * e.weights[i]
	}

	score := e.calibrator.Calibrate(aggregated, features)

	margin := features.SeverityVariance * intervalZ
	interval := types.ConfidenceInterval{
		Lower: clamp(score-margin, 0, 100),
		Upper: clamp(score+margin, 0, 100),
	}

	uncertainty := quantifyUncertainty(estimates, features)
	confidence := calculateConfidence(agree, uncertainty, len(vulns), features)

	validationPassed := true
	if obs.GroundTruth != nil {
		gt := *obs.GroundTruth
		validationPassed = interval.Lower <= gt && gt <= interval.Upper
	}

	if obs.History != nil && obs.History.PreviousCompromises > 0 {
		score = clamp(score*1.1, 0, 100)
	}

	tier := types.TierStandard
	if confidence >= minConfidence && agree >= minAgreement && uncertainty <= maxUncertainty {
		tier = types.TierUltraHigh
	}

	result := types.EnsembleRiskScore{
		AssetID:             asset.ID,
		Score:               score,
		Confidence:          confidence,
		Uncertainty:         uncertainty,
		ConfidenceInterval:  interval,
		RiskLevel:           categorize(score, confidence, uncertainty),
		ContributingFactors: contributingFactors(features),
		ModelAgreement:      agree,
		ValidationPassed:    validationPassed,
		PrecisionTier:       tier,
	}

	e.mu.Lock()
	e.history.append(Prediction{
		AssetID:     asset.ID,
		Score:       result.Score,
		Confidence:  result.Confidence,
		GroundTruth: obs.GroundTruth,
		RecordedAt:  now,
	})
	e.mu.Unlock()

	return result
}

// History returns a copy of the retained predictions, oldest first.
func (e *Engine) History() []Prediction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.snapshot()
}

// agreement converts estimator dispersion into an agreement score in [0,1]
// via the coefficient of variation. Identical estimates (or an all-zero
// mean) yield 1.0.
func agreement(estimates []float64) float64 {
	if len(estimates) < 2 {
		return 0
	}
	m := mean(estimates)
	if m == 0 {
		return 1
	}
	cv := stdDev(estimates) / m
	if cv > 1 {
		cv = 1
	}
	return 1 - cv
}

// quantifyUncertainty combines estimator spread with penalties for missing
// or thin input data.
func quantifyUncertainty(estimates []float64, f *FeatureVector) float64 {
	u := stdDev(estimates) / 100

	if f.AgeMeanDays == 0 {
		u += 0.02
	}
	if f.AssetPatchLevel > 0.6 {
		u += 0.01
	}
	if f.VulnCountTotal < 3 {
		u += 0.03
	}

	return clamp(u, 0, 1)
}

// calculateConfidence starts from agreement, discounts by uncertainty,
// scales by sample size, and applies small completeness bonuses.
func calculateConfidence(agree, uncertainty float64, vulnCount int, f *FeatureVector) float64 {
	confidence := agree * (1 - uncertainty)

	switch {
	case vulnCount < 3:
		confidence *= 0.7
	case vulnCount < 5:
		confidence *= 0.85
	case vulnCount > 10:
		confidence *= 1.05
	}

	if f.AgeMeanDays > 0 {
		confidence *= 1.02
	}
	if f.PatchCoverage > 0 {
		confidence *= 1.02
	}

	return clamp(confidence, 0, 1)
}

// categorize assigns the conservative risk level: the extreme labels
// additionally require confidence and uncertainty gates.
func categorize(score, confidence, uncertainty float64) string {
	switch {
	case score >= 95 && confidence >= 0.95 && uncertainty <= 0.05:
		return levelCritical
	case score >= 85 && confidence >= 0.90:
		return levelHigh
	case score >= 60:
		return levelMedium
	case score >= 30:
		return levelLow
	default:
		return levelInformational
	}
}

// contributingFactors builds the explainability breakdown directly from
// features. Each factor is clamped to [0,100]; the factors are independent
// signals and do not sum to the final score.
func contributingFactors(f *FeatureVector) map[string]float64 {
	return map[string]float64{
		"vulnerability_severity": clamp(float64(f.VulnCountCritical)*25+float64(f.VulnCountHigh)*15+float64(f.VulnCountMedium)*7, 0, 100),
		"exploitation_status":    clamp(float64(f.ActivelyExploitedCount)*40+float64(f.ExploitPublicCount)*25+float64(f.ExploitAvailableCount)*15, 0, 100),
		"internet_exposure":      clamp(f.AssetExposed*100, 0, 100),
		"asset_criticality":      clamp(f.AssetCriticality*10, 0, 100),
		"missing_patches":        clamp((1-f.PatchCoverage)*100, 0, 100),
	}
}

// zeroRiskScore is the fixed result for assets with no vulnerabilities:
// absence of data is a defined zero-risk answer, not a failure.
func zeroRiskScore(assetID string) types.EnsembleRiskScore {
	return types.EnsembleRiskScore{
		AssetID:             assetID,
		Score:               0,
		Confidence:          1,
		Uncertainty:         0,
		ConfidenceInterval:  types.ConfidenceInterval{},
		RiskLevel:           levelInformational,
		ContributingFactors: map[string]float64{},
		ModelAgreement:      1,
		ValidationPassed:    true,
		PrecisionTier:       types.TierUltraHigh,
	}
}

// lowConfidenceScore is the early return when the estimators disagree: the
// mean estimate with a maximally wide interval, labeled low precision.
func lowConfidenceScore(assetID string, estimates []float64, agree float64) types.EnsembleRiskScore {
	return types.EnsembleRiskScore{
		AssetID:            assetID,
		Score:              clamp(mean(estimates), 0, 100),
		Confidence:         agree,
		Uncertainty:        0.5,
		ConfidenceInterval: types.ConfidenceInterval{Lower: 0, Upper: 100},
		RiskLevel:          levelUncertain,
		ContributingFactors: map[string]float64{
			"model_disagreement": 1 - agree,
		},
		ModelAgreement:   agree,
		ValidationPassed: false,
		PrecisionTier:    types.TierLow,
	}
}
