// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"strings"

	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/parsers"
	"github.com/stratastor/warren/pkg/zfs/command"
)

// Manager runs snapshot commands. It does not look before it leaps; the
// orchestrator re-validates presence before rollback and destroy.
type Manager struct {
	executor *command.CommandExecutor
	parsers  parsers.Set
}

func NewManager(executor *command.CommandExecutor, p parsers.Set) *Manager {
	return &Manager{executor: executor, parsers: p}
}

// List returns snapshots, limited to one filesystem when filesystem is set.
func (m *Manager) List(ctx context.Context, filesystem string) ([]Snapshot, error) {
	out, err := m.executor.Execute(ctx,
		command.CommandOptions{Flags: command.FlagNoHeaders},
		"zfs list", "-t", "snapshot", "-o", strings.Join(listColumns, ","))
	if err != nil {
		return nil, errors.Wrap(err, errors.ZFSSnapshotList)
	}

	var snaps []Snapshot
	for _, row := range m.parsers.List.ParseList(out, listColumns...) {
		fs, label, ok := strings.Cut(row["name"], "@")
		if !ok {
			continue
		}
		if filesystem != "" && fs != filesystem {
			continue
		}
		snaps = append(snaps, Snapshot{
			Name:       row["name"],
			Filesystem: fs,
			Label:      label,
			Used:       row["used"],
			Creation:   row["creation"],
		})
	}
	return snaps, nil
}

// Create runs `zfs snapshot <filesystem>@<label>`. An existing name is
// rejected by zfs and surfaces as a tool failure.
func (m *Manager) Create(ctx context.Context, filesystem, label string) (CreateResult, error) {
	name := filesystem + "@" + label
	out, err := m.executor.Execute(ctx, command.CommandOptions{}, "zfs snapshot", name)
	if err != nil {
		return CreateResult{}, errors.Wrap(err, errors.ZFSSnapshotCreate).
			WithMetadata("snapshot", name)
	}
	return CreateResult{Name: name, Filesystem: filesystem, Label: label, Output: string(out)}, nil
}

// Rollback runs `zfs rollback -r`, destroying any newer snapshots.
func (m *Manager) Rollback(ctx context.Context, name string) error {
	if _, err := m.executor.Execute(ctx,
		command.CommandOptions{Flags: command.FlagRecursive},
		"zfs rollback", name); err != nil {
		return errors.Wrap(err, errors.ZFSSnapshotRollback).WithMetadata("snapshot", name)
	}
	return nil
}

// Destroy destroys a single snapshot.
func (m *Manager) Destroy(ctx context.Context, name string) error {
	if !strings.Contains(name, "@") {
		return errors.New(errors.ZFSSnapshotInvalidName, "refusing to destroy a non-snapshot").
			WithMetadata("snapshot", name)
	}
	if _, err := m.executor.Execute(ctx, command.CommandOptions{}, "zfs destroy", name); err != nil {
		return errors.Wrap(err, errors.ZFSSnapshotDestroy).WithMetadata("snapshot", name)
	}
	return nil
}
