// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"time"

	"github.com/stratastor/warren/pkg/errors"
)

// Outcome summarises how an operation ended.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailure  Outcome = "failure"
)

// AuditRecord is emitted for every mutation attempt and every rejected
// request. Params never carry secrets; this layer handles none.
type AuditRecord struct {
	ID        string            `json:"id"`
	Time      time.Time         `json:"time"`
	Operation string            `json:"operation"`
	Kind      ResourceKind      `json:"kind"`
	Resource  string            `json:"resource"`
	Params    map[string]string `json:"params,omitempty"`
	Outcome   Outcome           `json:"outcome"`
	State     State             `json:"state"`
	ErrorKind errors.Kind       `json:"error_kind,omitempty"`
	Code      int               `json:"code,omitempty"`
	Detail    string            `json:"detail,omitempty"`
	Command   string            `json:"command,omitempty"`
	Duration  time.Duration     `json:"duration"`
}

// AuditSink receives audit records after they are logged.
type AuditSink interface {
	Record(ctx context.Context, rec AuditRecord) error
}

func (c *Controller) emit(ctx context.Context, rec AuditRecord) {
	kv := []interface{}{
		"id", rec.ID,
		"operation", rec.Operation,
		"resource", rec.Resource,
		"outcome", rec.Outcome,
		"state", rec.State,
		"duration", rec.Duration,
	}
	for k, v := range rec.Params {
		kv = append(kv, "param."+k, v)
	}
	if rec.Outcome == OutcomeSuccess {
		c.auditLog.Info("Operation completed", kv...)
	} else {
		kv = append(kv, "error_kind", rec.ErrorKind, "code", rec.Code, "detail", rec.Detail)
		if rec.Command != "" {
			kv = append(kv, "command", rec.Command)
		}
		c.auditLog.Warn("Operation did not complete", kv...)
	}

	for _, sink := range c.sinks {
		if err := sink.Record(ctx, rec); err != nil {
			c.logger.Error("Failed to deliver audit record", "id", rec.ID, "err", err)
		}
	}
}
