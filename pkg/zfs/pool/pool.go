/*
 * Copyright 2024-2025 Raamsri Kumar <raam@tinkershack.in>
 * Copyright 2024-2025 The StrataSTOR Authors and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pool

import (
	"context"

	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/parsers"
	"github.com/stratastor/warren/pkg/zfs/command"
)

// Manager manages ZFS pool operations. It performs no precondition checks;
// callers validate first.
type Manager struct {
	executor *command.CommandExecutor
	parsers  parsers.Set
}

func NewManager(executor *command.CommandExecutor, p parsers.Set) *Manager {
	return &Manager{executor: executor, parsers: p}
}

// BuildCreateArgs renders `<name> [tokens] <devices> [spare <spares>]`.
func BuildCreateArgs(cfg CreateConfig) []string {
	args := []string{cfg.Name}
	args = append(args, cfg.Redundancy.Tokens()...)
	args = append(args, cfg.Devices...)
	if len(cfg.Spares) > 0 {
		args = append(args, "spare")
		args = append(args, cfg.Spares...)
	}
	return args
}

// Create creates a new ZFS pool
func (p *Manager) Create(ctx context.Context, cfg CreateConfig) error {
	out, err := p.executor.Execute(ctx, command.CommandOptions{}, "zpool create", BuildCreateArgs(cfg)...)
	if err != nil {
		if len(out) > 0 {
			return errors.Wrap(err, errors.ZFSPoolCreate).
				WithMetadata("output", string(out))
		}
		return errors.Wrap(err, errors.ZFSPoolCreate)
	}
	return nil
}

// Destroy destroys a ZFS pool
func (p *Manager) Destroy(ctx context.Context, name string) error {
	if _, err := p.executor.Execute(ctx, command.CommandOptions{}, "zpool destroy", name); err != nil {
		return errors.Wrap(err, errors.ZFSPoolDestroy).WithMetadata("pool", name)
	}
	return nil
}

// List returns every live pool.
func (p *Manager) List(ctx context.Context) ([]Pool, error) {
	out, err := p.executor.Execute(ctx, command.CommandOptions{}, "zpool list")
	if err != nil {
		return nil, errors.Wrap(err, errors.ZFSPoolList)
	}

	rows := p.parsers.Table.ParseTable(out)
	pools := make([]Pool, 0, len(rows))
	for _, row := range rows {
		pools = append(pools, Pool{
			Name:   row["NAME"],
			Size:   row["SIZE"],
			Alloc:  row["ALLOC"],
			Free:   row["FREE"],
			Health: row["HEALTH"],
			Fields: row,
		})
	}
	return pools, nil
}

// Names returns the names of every live pool.
func (p *Manager) Names(ctx context.Context) ([]string, error) {
	out, err := p.executor.Execute(ctx,
		command.CommandOptions{Flags: command.FlagNoHeaders},
		"zpool list", "-o", "name")
	if err != nil {
		return nil, errors.Wrap(err, errors.ZFSPoolList)
	}

	rows := p.parsers.List.ParseList(out, "name")
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row["name"])
	}
	return names, nil
}

// Properties returns `zpool get all` for a pool.
func (p *Manager) Properties(ctx context.Context, name string) ([]parsers.Property, error) {
	out, err := p.executor.Execute(ctx, command.CommandOptions{}, "zpool get all", name)
	if err != nil {
		return nil, errors.Wrap(err, errors.ZFSPoolProperties).WithMetadata("pool", name)
	}
	return p.parsers.Properties.ParseProperties(out), nil
}

// Status returns the decoded `zpool status` of a pool.
func (p *Manager) Status(ctx context.Context, name string) (parsers.PoolStatus, error) {
	out, err := p.executor.Execute(ctx, command.CommandOptions{}, "zpool status", name)
	if err != nil {
		return parsers.PoolStatus{}, errors.Wrap(err, errors.ZFSPoolStatus).
			WithMetadata("pool", name)
	}
	return p.parsers.Status.ParseStatus(out), nil
}

// MemberDevices returns the full device paths of every leaf vdev and spare
// of a pool, as printed by `zpool status -P`.
func (p *Manager) MemberDevices(ctx context.Context, name string) ([]string, error) {
	out, err := p.executor.Execute(ctx, command.CommandOptions{}, "zpool status", "-P", name)
	if err != nil {
		return nil, errors.Wrap(err, errors.ZFSPoolStatus).WithMetadata("pool", name)
	}

	st := p.parsers.Status.ParseStatus(out)
	devices := st.Leaves()
	for _, s := range st.Spares {
		devices = append(devices, s.Name)
	}
	return devices, nil
}

// AllMemberDevices maps each live pool to its member devices.
func (p *Manager) AllMemberDevices(ctx context.Context) (map[string][]string, error) {
	names, err := p.Names(ctx)
	if err != nil {
		return nil, err
	}

	members := make(map[string][]string, len(names))
	for _, name := range names {
		devs, err := p.MemberDevices(ctx, name)
		if err != nil {
			return nil, err
		}
		members[name] = devs
	}
	return members, nil
}
