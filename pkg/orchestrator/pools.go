// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"strings"

	"github.com/stratastor/warren/pkg/parsers"
	"github.com/stratastor/warren/pkg/zfs/pool"
)

type poolCreate struct {
	c   *Controller
	cfg pool.CreateConfig
}

func (op *poolCreate) Validate(ctx context.Context) error {
	return op.c.validator.PoolCreate(ctx, &op.cfg)
}

func (op *poolCreate) Mutate(ctx context.Context) error {
	return op.c.pools.Create(ctx, op.cfg)
}

type poolDestroy struct {
	c    *Controller
	name string
}

func (op *poolDestroy) Validate(ctx context.Context) error {
	return op.c.validator.PoolPresent(ctx, op.name)
}

func (op *poolDestroy) Mutate(ctx context.Context) error {
	return op.c.pools.Destroy(ctx, op.name)
}

// CreatePool creates a pool once name, redundancy, device count and device
// ownership all check out.
func (c *Controller) CreatePool(ctx context.Context, cfg pool.CreateConfig) error {
	return c.run(ctx, Operation{
		Name:     "pool.create",
		Kind:     KindPool,
		Resource: cfg.Name,
		Params: map[string]string{
			"redundancy": string(cfg.Redundancy),
			"devices":    strings.Join(cfg.Devices, ","),
			"spares":     strings.Join(cfg.Spares, ","),
		},
		From: StateAbsent,
		To:   StatePresent,
		Cap:  &poolCreate{c: c, cfg: cfg},
	})
}

// DestroyPool destroys a live pool.
func (c *Controller) DestroyPool(ctx context.Context, name string) error {
	return c.run(ctx, Operation{
		Name:     "pool.destroy",
		Kind:     KindPool,
		Resource: name,
		From:     StatePresent,
		To:       StateAbsent,
		Cap:      &poolDestroy{c: c, name: name},
	})
}

func (c *Controller) ListPools(ctx context.Context) ([]pool.Pool, error) {
	return c.pools.List(ctx)
}

// PoolProperties returns `zpool get all` of a live pool.
func (c *Controller) PoolProperties(ctx context.Context, name string) ([]parsers.Property, error) {
	if err := c.read(ctx, "pool.properties", KindPool, name, func(ctx context.Context) error {
		return c.validator.PoolPresent(ctx, name)
	}); err != nil {
		return nil, err
	}
	return c.pools.Properties(ctx, name)
}

// PoolStatus returns the decoded status of a live pool.
func (c *Controller) PoolStatus(ctx context.Context, name string) (parsers.PoolStatus, error) {
	if err := c.read(ctx, "pool.status", KindPool, name, func(ctx context.Context) error {
		return c.validator.PoolPresent(ctx, name)
	}); err != nil {
		return parsers.PoolStatus{}, err
	}
	return c.pools.Status(ctx, name)
}

// read validates a query. Rejections are audited; successful reads are not.
func (c *Controller) read(ctx context.Context, name string, kind ResourceKind, resource string, fn check) error {
	return c.run(ctx, Operation{
		Name:     name,
		Kind:     kind,
		Resource: resource,
		From:     StatePresent,
		To:       StatePresent,
		Cap:      fn,
	})
}
