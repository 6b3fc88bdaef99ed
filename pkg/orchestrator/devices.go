// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"

	"github.com/stratastor/warren/pkg/disk"
	"github.com/stratastor/warren/pkg/parsers"
)

// DeviceHealth is the result of a single health query.
type DeviceHealth struct {
	Path   string         `json:"path"`
	Health parsers.Health `json:"health"`
}

// ListDevices returns every disk with its health and pool ownership.
func (c *Controller) ListDevices(ctx context.Context) ([]disk.Device, error) {
	return c.disks.List(ctx)
}

// DeviceHealth runs a health check against one device path.
func (c *Controller) DeviceHealth(ctx context.Context, path string) (DeviceHealth, error) {
	if err := c.read(ctx, "device.health", KindDevice, path, func(context.Context) error {
		return c.validator.DevicePath(path)
	}); err != nil {
		return DeviceHealth{}, err
	}

	h, err := c.disks.Health(ctx, path)
	if err != nil {
		return DeviceHealth{}, err
	}
	return DeviceHealth{Path: path, Health: h}, nil
}
