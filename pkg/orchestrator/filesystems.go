// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/parsers"
	"github.com/stratastor/warren/pkg/zfs/common"
	"github.com/stratastor/warren/pkg/zfs/dataset"
	"golang.org/x/exp/maps"
)

// FilesystemRequest creates pool/name with optional properties.
type FilesystemRequest struct {
	Name       string            `json:"name" binding:"required"`
	Properties map[string]string `json:"properties,omitempty"`
}

// FilesystemResult lists the steps a create performed, in order.
type FilesystemResult struct {
	Name       string   `json:"name"`
	Mountpoint string   `json:"mountpoint"`
	Steps      []string `json:"steps"`
}

const (
	stepCreate      = "create"
	stepPermissions = "permissions"
	stepSetPrefix   = "set:"
)

type filesystemCreate struct {
	c      *Controller
	req    FilesystemRequest
	result FilesystemResult
}

func (op *filesystemCreate) Validate(ctx context.Context) error {
	return op.c.validator.FilesystemCreate(ctx, op.req.Name, op.req.Properties)
}

// Mutate runs create, then chmod of the mountpoint, then one `zfs set` per
// property: the recognized options in their fixed order, then the rest by
// name. The first failure stops the sequence; completed steps stay applied.
func (op *filesystemCreate) Mutate(ctx context.Context) error {
	name := op.req.Name
	op.result = FilesystemResult{Name: name, Steps: []string{}}

	if err := op.step(stepCreate, func() error {
		return op.c.datasets.Create(ctx, name)
	}); err != nil {
		return err
	}

	mp, err := op.c.datasets.Mountpoint(ctx, name)
	if err != nil {
		return op.fail(stepPermissions, err)
	}
	op.result.Mountpoint = mp
	if filepath.IsAbs(mp) {
		if err := op.step(stepPermissions, func() error {
			return op.c.datasets.SetPermissions(ctx, mp, dataset.DefaultMode)
		}); err != nil {
			return err
		}
	}

	for _, key := range propertyOrder(op.req.Properties) {
		value := op.req.Properties[key]
		if err := op.step(stepSetPrefix+key, func() error {
			return op.c.datasets.SetProperty(ctx, name, key, value)
		}); err != nil {
			return err
		}
		if key == "mountpoint" {
			op.result.Mountpoint = value
		}
	}
	return nil
}

func (op *filesystemCreate) step(name string, fn func() error) error {
	if err := fn(); err != nil {
		return op.fail(name, err)
	}
	op.result.Steps = append(op.result.Steps, name)
	return nil
}

func (op *filesystemCreate) fail(step string, err error) error {
	op.c.logger.Warn("Filesystem create stopped",
		"filesystem", op.req.Name,
		"step", step,
		"completed", op.result.Steps)
	we := errors.Wrap(err, errors.LifecycleStepFailed).
		WithMetadata(errors.MetaStep, step).
		WithMetadata(errors.MetaCompleted, strings.Join(op.result.Steps, ",")).
		WithMetadata("filesystem", op.req.Name)
	// The step code is informational; the cause decides the kind.
	if inner, ok := errors.As(err); ok {
		we.Kind = inner.Kind
		we.HTTPStatus = inner.HTTPStatus
	} else {
		we.Kind = errors.KindInternal
		we.HTTPStatus = http.StatusInternalServerError
	}
	return we
}

// propertyOrder returns the recognized create options first, in their fixed
// order, then every other key sorted.
func propertyOrder(props map[string]string) []string {
	var keys []string
	for _, k := range common.CreateOptions {
		if _, ok := props[k]; ok {
			keys = append(keys, k)
		}
	}
	rest := maps.Keys(props)
	sort.Strings(rest)
	for _, k := range rest {
		if !common.IsCreateOption(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

type filesystemDestroy struct {
	c    *Controller
	name string
}

func (op *filesystemDestroy) Validate(ctx context.Context) error {
	_, err := op.c.validator.FilesystemPresent(ctx, op.name)
	return err
}

func (op *filesystemDestroy) Mutate(ctx context.Context) error {
	return op.c.datasets.Destroy(ctx, op.name)
}

type filesystemSet struct {
	c          *Controller
	name       string
	key, value string
}

func (op *filesystemSet) Validate(ctx context.Context) error {
	if err := op.c.validator.validateProperties(map[string]string{op.key: op.value}); err != nil {
		return err
	}
	_, err := op.c.validator.FilesystemPresent(ctx, op.name)
	return err
}

func (op *filesystemSet) Mutate(ctx context.Context) error {
	return op.c.datasets.SetProperty(ctx, op.name, op.key, op.value)
}

// CreateFilesystem creates a filesystem and applies its properties. On a
// partial failure the returned result still lists the completed steps.
func (c *Controller) CreateFilesystem(ctx context.Context, req FilesystemRequest) (FilesystemResult, error) {
	params := make(map[string]string, len(req.Properties))
	for k, v := range req.Properties {
		params[k] = v
	}

	op := &filesystemCreate{c: c, req: req}
	err := c.run(ctx, Operation{
		Name:     "filesystem.create",
		Kind:     KindFilesystem,
		Resource: req.Name,
		Params:   params,
		From:     StateAbsent,
		To:       StatePresent,
		Cap:      op,
	})
	return op.result, err
}

// DestroyFilesystem destroys a live filesystem.
func (c *Controller) DestroyFilesystem(ctx context.Context, name string) error {
	return c.run(ctx, Operation{
		Name:     "filesystem.destroy",
		Kind:     KindFilesystem,
		Resource: name,
		From:     StatePresent,
		To:       StateAbsent,
		Cap:      &filesystemDestroy{c: c, name: name},
	})
}

// SetFilesystemProperty applies a single property to a live filesystem.
func (c *Controller) SetFilesystemProperty(ctx context.Context, name, key, value string) error {
	return c.run(ctx, Operation{
		Name:     "filesystem.set",
		Kind:     KindFilesystem,
		Resource: name,
		Params:   map[string]string{key: value},
		From:     StatePresent,
		To:       StatePresent,
		Cap:      &filesystemSet{c: c, name: name, key: key, value: value},
	})
}

func (c *Controller) ListFilesystems(ctx context.Context) ([]dataset.Filesystem, error) {
	return c.datasets.List(ctx)
}

// FilesystemProperties returns the named properties, or the standard
// inspect set when none are named.
func (c *Controller) FilesystemProperties(ctx context.Context, name string, props ...string) ([]parsers.Property, error) {
	if len(props) == 0 {
		props = common.InspectProperties
	}
	if err := c.read(ctx, "filesystem.properties", KindFilesystem, name, func(ctx context.Context) error {
		if err := c.validator.PropertyNames(props); err != nil {
			return err
		}
		_, err := c.validator.FilesystemPresent(ctx, name)
		return err
	}); err != nil {
		return nil, err
	}
	return c.datasets.Properties(ctx, name, props...)
}
