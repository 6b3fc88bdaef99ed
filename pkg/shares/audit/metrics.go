// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warren",
		Name:      "exports_audit_checks_total",
		Help:      "Exports divergence checks by trigger.",
	}, []string{"trigger"})

	checkErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "warren",
		Name:      "exports_audit_errors_total",
		Help:      "Exports divergence checks that could not complete.",
	})

	divergentRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "warren",
		Name:      "exports_divergent_records",
		Help:      "Export records present on only one side at the last check.",
	}, []string{"side"})
)
