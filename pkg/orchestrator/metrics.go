// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warren",
		Name:      "operations_total",
		Help:      "Audited lifecycle operations by outcome.",
	}, []string{"operation", "outcome"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "warren",
		Name:      "operation_duration_seconds",
		Help:      "Wall time of audited lifecycle operations.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"operation"})

	reloadDivergence = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "warren",
		Name:      "exports_reload_divergence_total",
		Help:      "Exports file mutations whose reload failed.",
	})
)
