// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"

	"github.com/stratastor/warren/pkg/zfs/snapshot"
)

type snapshotCreate struct {
	c          *Controller
	filesystem string
	label      string
	result     snapshot.CreateResult
}

func (op *snapshotCreate) Validate(ctx context.Context) error {
	_, err := op.c.validator.FilesystemPresent(ctx, op.filesystem)
	return err
}

// Mutate leaves collision detection to zfs: a label already taken in the
// same second fails the invocation.
func (op *snapshotCreate) Mutate(ctx context.Context) (err error) {
	op.result, err = op.c.snapshots.Create(ctx, op.filesystem, op.label)
	return err
}

type snapshotAction struct {
	c      *Controller
	name   string
	action func(ctx context.Context, name string) error
}

func (op *snapshotAction) Validate(ctx context.Context) error {
	_, err := op.c.validator.SnapshotPresent(ctx, op.name)
	return err
}

func (op *snapshotAction) Mutate(ctx context.Context) error {
	return op.action(ctx, op.name)
}

// CreateSnapshot snapshots a live filesystem with a label taken from the
// clock at second resolution.
func (c *Controller) CreateSnapshot(ctx context.Context, filesystem string) (snapshot.CreateResult, error) {
	op := &snapshotCreate{
		c:          c,
		filesystem: filesystem,
		label:      c.now().Format(snapshot.LabelFormat),
	}
	err := c.run(ctx, Operation{
		Name:     "snapshot.create",
		Kind:     KindSnapshot,
		Resource: filesystem + "@" + op.label,
		From:     StateAbsent,
		To:       StatePresent,
		Cap:      op,
	})
	return op.result, err
}

// RollbackSnapshot rolls the parent filesystem back to name. Newer
// snapshots of the filesystem are destroyed.
func (c *Controller) RollbackSnapshot(ctx context.Context, name string) error {
	return c.run(ctx, Operation{
		Name:     "snapshot.rollback",
		Kind:     KindSnapshot,
		Resource: name,
		From:     StatePresent,
		To:       StatePresent,
		Cap:      &snapshotAction{c: c, name: name, action: c.snapshots.Rollback},
	})
}

// DestroySnapshot destroys one snapshot.
func (c *Controller) DestroySnapshot(ctx context.Context, name string) error {
	return c.run(ctx, Operation{
		Name:     "snapshot.destroy",
		Kind:     KindSnapshot,
		Resource: name,
		From:     StatePresent,
		To:       StateAbsent,
		Cap:      &snapshotAction{c: c, name: name, action: c.snapshots.Destroy},
	})
}

// ListSnapshots lists snapshots, of one live filesystem when filesystem is
// set.
func (c *Controller) ListSnapshots(ctx context.Context, filesystem string) ([]snapshot.Snapshot, error) {
	if filesystem != "" {
		if err := c.read(ctx, "snapshot.list", KindSnapshot, filesystem, func(ctx context.Context) error {
			_, err := c.validator.FilesystemPresent(ctx, filesystem)
			return err
		}); err != nil {
			return nil, err
		}
	}
	return c.snapshots.List(ctx, filesystem)
}
