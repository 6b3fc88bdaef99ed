// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess    = "success"
	outcomeFailure    = "exit_nonzero"
	outcomeTimeout    = "cancelled"
	outcomeStartError = "start_error"
)

var (
	// commandTotal counts invocations by tool and outcome
	commandTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warren_command_invocations_total",
		Help: "External tool invocations by binary and outcome",
	}, []string{"binary", "outcome"})

	// commandDuration tracks wall time per tool
	commandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "warren_command_duration_seconds",
		Help:    "External tool invocation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
	}, []string{"binary"})
)
