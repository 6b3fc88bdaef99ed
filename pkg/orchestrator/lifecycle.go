// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/stratastor/warren/pkg/errors"
)

// ResourceKind tags the resource an operation acts on.
type ResourceKind string

const (
	KindPool       ResourceKind = "pool"
	KindFilesystem ResourceKind = "filesystem"
	KindSnapshot   ResourceKind = "snapshot"
	KindExport     ResourceKind = "export"
	KindService    ResourceKind = "service"
	KindDevice     ResourceKind = "device"
)

// State is a resource's position in its lifecycle. Nothing is persisted in
// Validating or Mutating; they only label where an operation stopped.
type State string

const (
	StateAbsent     State = "absent"
	StateValidating State = "validating"
	StateMutating   State = "mutating"
	StatePresent    State = "present"
)

// Capability is what a resource kind supplies for one operation. Validate
// runs the full precondition chain and must not mutate anything. Mutate is
// only called when Validate returned nil.
type Capability interface {
	Validate(ctx context.Context) error
	Mutate(ctx context.Context) error
}

// Operation is one lifecycle transition of one resource.
type Operation struct {
	Name     string
	Kind     ResourceKind
	Resource string
	Params   map[string]string
	From     State
	To       State
	Cap      Capability
}

// check adapts a validation-only function into a Capability for reads.
type check func(ctx context.Context) error

func (c check) Validate(ctx context.Context) error { return c(ctx) }
func (check) Mutate(context.Context) error         { return nil }

// run drives op through validating and mutating. A panic or an error that is
// not a WarrenError comes back as an internal failure. Nothing is retried.
func (c *Controller) run(ctx context.Context, op Operation) (err error) {
	start := c.now()
	state := op.From
	mutating := !isCheck(op.Cap)

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Operation panicked",
				"operation", op.Name,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
			err = errors.New(errors.LifecyclePanic, fmt.Sprint(r)).
				WithMetadata("operation", op.Name)
		}
		err = classify(err)
		if err == nil {
			state = op.To
		}
		if err != nil || mutating {
			c.audit(ctx, op, state, start, err)
		}
	}()

	state = StateValidating
	if err = op.Cap.Validate(ctx); err != nil {
		return err
	}
	if !mutating {
		return nil
	}

	state = StateMutating
	return op.Cap.Mutate(ctx)
}

func isCheck(cap Capability) bool {
	_, ok := cap.(check)
	return ok
}

// classify guarantees every failure leaving the controller is a WarrenError
// with a kind.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.As(err); ok {
		return err
	}
	var v *Violation
	if stderrors.As(err, &v) {
		return v.Err()
	}
	return errors.Wrap(err, errors.LifecycleInternal)
}

func (c *Controller) audit(ctx context.Context, op Operation, state State, start time.Time, err error) {
	rec := AuditRecord{
		ID:        uuid.NewString(),
		Time:      start,
		Operation: op.Name,
		Kind:      op.Kind,
		Resource:  op.Resource,
		Params:    op.Params,
		State:     state,
		Duration:  c.now().Sub(start),
		Outcome:   OutcomeSuccess,
	}
	if err != nil {
		rec.Outcome = OutcomeFailure
		if errors.IsKind(err, errors.KindValidation) || errors.IsKind(err, errors.KindPrecondition) {
			rec.Outcome = OutcomeRejected
		}
		if we, ok := errors.As(err); ok {
			rec.ErrorKind = we.Kind
			rec.Code = int(we.Code)
			rec.Detail = we.Details
			rec.Command = we.Metadata[errors.MetaCommand]
		}
	}

	operationTotal.WithLabelValues(op.Name, string(rec.Outcome)).Inc()
	operationDuration.WithLabelValues(op.Name).Observe(rec.Duration.Seconds())
	c.emit(ctx, rec)
}
