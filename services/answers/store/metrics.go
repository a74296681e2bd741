// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "daleel",
		Subsystem: "store",
		Name:      "records",
		Help:      "Answer records in the live snapshot",
	})

	reloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "daleel",
		Subsystem: "store",
		Name:      "reloads_total",
		Help:      "Successful corpus snapshot swaps",
	})

	reloadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "daleel",
		Subsystem: "store",
		Name:      "reload_failures_total",
		Help:      "Corpus reloads rejected by validation",
	})
)
