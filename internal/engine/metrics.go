// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "riskcalc",
		Subsystem: "engine",
		Name:      "recompute_duration_seconds",
		Help:      "Wall time of full recompute cycles.",
	})
	assetsScoredCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "riskcalc",
		Subsystem: "engine",
		Name:      "assets_scored_total",
		Help:      "Total number of per-asset scoring passes.",
	})
	scenariosEmittedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "riskcalc",
		Subsystem: "engine",
		Name:      "scenarios_emitted_total",
		Help:      "Total number of risk scenarios produced by correlation passes.",
	})
)
