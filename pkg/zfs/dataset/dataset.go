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

package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/stratastor/warren/internal/command"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/parsers"
	zfscmd "github.com/stratastor/warren/pkg/zfs/command"
)

const defaultChmodBin = "/usr/bin/chmod"

// Manager handles ZFS filesystem operations
type Manager struct {
	executor *zfscmd.CommandExecutor
	invoker  command.Invoker
	parsers  parsers.Set
	chmodBin string
}

func NewManager(executor *zfscmd.CommandExecutor, invoker command.Invoker, p parsers.Set) *Manager {
	return &Manager{executor: executor, invoker: invoker, parsers: p, chmodBin: defaultChmodBin}
}

// WithChmod overrides the chmod binary.
func (m *Manager) WithChmod(bin string) *Manager {
	if bin != "" {
		m.chmodBin = bin
	}
	return m
}

// List returns every filesystem, pool roots included.
func (m *Manager) List(ctx context.Context) ([]Filesystem, error) {
	out, err := m.executor.Execute(ctx,
		zfscmd.CommandOptions{Flags: zfscmd.FlagNoHeaders},
		"zfs list", "-t", "filesystem", "-o", strings.Join(listColumns, ","))
	if err != nil {
		return nil, errors.Wrap(err, errors.ZFSDatasetList)
	}

	rows := m.parsers.List.ParseList(out, listColumns...)
	fs := make([]Filesystem, 0, len(rows))
	for _, row := range rows {
		fs = append(fs, Filesystem{
			Name:       row["name"],
			Used:       row["used"],
			Available:  row["avail"],
			Referenced: row["refer"],
			Mountpoint: row["mountpoint"],
		})
	}
	return fs, nil
}

// Exists reports whether a filesystem is currently present.
func (m *Manager) Exists(ctx context.Context, name string) (bool, error) {
	all, err := m.List(ctx)
	if err != nil {
		return false, err
	}
	for _, fs := range all {
		if fs.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// Create creates a filesystem with no properties.
func (m *Manager) Create(ctx context.Context, name string) error {
	if _, err := m.executor.Execute(ctx, zfscmd.CommandOptions{}, "zfs create", name); err != nil {
		return errors.Wrap(err, errors.ZFSDatasetCreate).WithMetadata("filesystem", name)
	}
	return nil
}

// Destroy destroys a filesystem
func (m *Manager) Destroy(ctx context.Context, name string) error {
	if _, err := m.executor.Execute(ctx, zfscmd.CommandOptions{}, "zfs destroy", name); err != nil {
		return errors.Wrap(err, errors.ZFSDatasetDestroy).WithMetadata("filesystem", name)
	}
	return nil
}

// Properties returns the requested properties of a filesystem.
func (m *Manager) Properties(ctx context.Context, name string, props ...string) ([]parsers.Property, error) {
	list := "all"
	if len(props) > 0 {
		list = strings.Join(props, ",")
	}

	out, err := m.executor.Execute(ctx,
		zfscmd.CommandOptions{Flags: zfscmd.FlagNoHeaders},
		"zfs get", "-o", "name,property,value,source", list, name)
	if err != nil {
		return nil, errors.Wrap(err, errors.ZFSDatasetProperties).WithMetadata("filesystem", name)
	}
	return m.parsers.Properties.ParseProperties(out), nil
}

// SetProperty applies a single key=value.
func (m *Manager) SetProperty(ctx context.Context, name, key, value string) error {
	if _, err := m.executor.Execute(ctx, zfscmd.CommandOptions{},
		"zfs set", fmt.Sprintf("%s=%s", key, value), name); err != nil {
		return errors.Wrap(err, errors.ZFSDatasetSetProperty).
			WithMetadata("filesystem", name).
			WithMetadata("property", key)
	}
	return nil
}

// Mountpoint returns the mountpoint property, which may be "none" or
// "legacy".
func (m *Manager) Mountpoint(ctx context.Context, name string) (string, error) {
	props, err := m.Properties(ctx, name, "mountpoint")
	if err != nil {
		return "", err
	}
	return parsers.PropertyMap(props)["mountpoint"], nil
}

// SetPermissions chmods a mounted filesystem's root directory.
func (m *Manager) SetPermissions(ctx context.Context, path, mode string) error {
	if _, err := m.invoker.Invoke(ctx, m.chmodBin, mode, path); err != nil {
		return errors.Wrap(err, errors.ZFSDatasetPermissions).WithMetadata("path", path)
	}
	return nil
}
