// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package disk

import "github.com/stratastor/warren/pkg/parsers"

const (
	DefaultLsblkPath    = "/usr/bin/lsblk"
	DefaultSmartctlPath = "/usr/sbin/smartctl"
)

// lsblkColumns are the columns requested from lsblk.
const lsblkColumns = "NAME,PATH,SIZE,MODEL,TYPE"

// Device is a physical disk. InUse and Pool are derived from live pool
// membership on every call and never stored.
type Device struct {
	Name   string         `json:"name"`
	Path   string         `json:"path"`
	Size   string         `json:"size"`
	Model  string         `json:"model,omitempty"`
	Health parsers.Health `json:"health"`
	InUse  bool           `json:"in_use"`
	Pool   string         `json:"pool,omitempty"`
}

// Config holds tool paths. Empty fields use the defaults.
type Config struct {
	LsblkPath    string
	SmartctlPath string
}
