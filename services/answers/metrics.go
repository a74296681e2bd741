// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package answers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daleel",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route, and status",
	}, []string{"method", "route", "status"})

	httpRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "daleel",
		Subsystem: "http",
		Name:      "request_latency_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"route"})
)
