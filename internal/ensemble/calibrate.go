// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package ensemble

// Calibrator maps an aggregated ensemble score onto a calibrated scale.
// Implementations must be monotone non-decreasing in score and return a
// value in [0,100]. The default is the identity; a learned calibration
// curve (Platt scaling or similar) can be plugged in once observed
// outcomes exist to fit it against.
type Calibrator interface {
	Calibrate(score float64, f *FeatureVector) float64
}

// identityCalibrator passes the score through unchanged apart from range
// clamping.
type identityCalibrator struct{}

func (identityCalibrator) Calibrate(score float64, _ *FeatureVector) float64 {
	return clamp(score, 0, 100)
}
