// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daleel",
		Subsystem: "engine",
		Name:      "resolutions_total",
		Help:      "Total resolutions by outcome kind",
	}, []string{"outcome"})

	resolutionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "daleel",
		Subsystem: "engine",
		Name:      "resolution_latency_seconds",
		Help:      "Resolve execution latency",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})

	rankScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "daleel",
		Subsystem: "engine",
		Name:      "rank_score",
		Help:      "Winning cumulative ranking scores",
		Buckets:   []float64{0, 1, 2, 4, 6, 8, 10, 14},
	})

	splitSegmentCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "daleel",
		Subsystem: "engine",
		Name:      "split_segments",
		Help:      "Number of segments per split resolution",
		Buckets:   []float64{2, 3, 4, 5, 7, 10},
	})
)
