// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package snapshot

// LabelFormat is the snapshot label layout, yyMMdd-HHmmss. Two snapshots of
// the same filesystem in the same second collide.
const LabelFormat = "060102-150405"

// Snapshot is one row of `zfs list -t snapshot`.
type Snapshot struct {
	Name       string `json:"name"`
	Filesystem string `json:"filesystem"`
	Label      string `json:"label"`
	Used       string `json:"used"`
	Creation   string `json:"creation"`
}

// CreateResult carries what zfs printed on completion.
type CreateResult struct {
	Name       string `json:"name"`
	Filesystem string `json:"filesystem"`
	Label      string `json:"label"`
	Output     string `json:"output"`
}

var listColumns = []string{"name", "used", "creation"}
