// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package disk

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/stratastor/logger"
	"github.com/stratastor/warren/internal/command"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/parsers"
)

// MembershipSource reports the member devices of every live pool.
type MembershipSource interface {
	AllMemberDevices(ctx context.Context) (map[string][]string, error)
}

// Resolver maps a device path to its canonical form.
type Resolver func(path string) string

// ResolveSymlinks follows /dev/disk/by-* links. Unresolvable paths are
// returned unchanged.
func ResolveSymlinks(path string) string {
	if p, err := filepath.EvalSymlinks(path); err == nil {
		return p
	}
	return filepath.Clean(path)
}

// Names ending in a digit (nvme0n1, md1) separate the partition with 'p'.
var (
	partitionSuffix  = regexp.MustCompile(`^\d+$`)
	pPartitionSuffix = regexp.MustCompile(`^p\d+$`)
)

// Manager enumerates block devices and queries their health. It is
// read-only.
type Manager struct {
	logger      logger.Logger
	invoker     command.Invoker
	parsers     parsers.Set
	members     MembershipSource
	resolve     Resolver
	lsblkPath   string
	smartctlBin string
}

func NewManager(
	l logger.Logger,
	invoker command.Invoker,
	p parsers.Set,
	members MembershipSource,
	cfg Config,
) *Manager {
	m := &Manager{
		logger:      l,
		invoker:     invoker,
		parsers:     p,
		members:     members,
		resolve:     ResolveSymlinks,
		lsblkPath:   DefaultLsblkPath,
		smartctlBin: DefaultSmartctlPath,
	}
	if cfg.LsblkPath != "" {
		m.lsblkPath = cfg.LsblkPath
	}
	if cfg.SmartctlPath != "" {
		m.smartctlBin = cfg.SmartctlPath
	}
	return m
}

// WithResolver replaces the symlink resolver.
func (m *Manager) WithResolver(r Resolver) *Manager {
	if r != nil {
		m.resolve = r
	}
	return m
}

// List returns every physical disk with its health and derived in-use flag.
func (m *Manager) List(ctx context.Context) ([]Device, error) {
	res, err := m.invoker.Invoke(ctx, m.lsblkPath, "-J", "-d", "-o", lsblkColumns)
	if err != nil {
		return nil, errors.Wrap(err, errors.DiskEnumerationFailed)
	}

	bds, err := m.parsers.BlockDevices.ParseBlockDevices(res.Stdout)
	if err != nil {
		return nil, errors.Wrap(err, errors.DiskEnumerationFailed)
	}

	members, err := m.members.AllMemberDevices(ctx)
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(bds))
	for _, bd := range bds {
		if !bd.IsPhysicalDisk() {
			continue
		}

		d := Device{Name: bd.Name, Path: bd.Path, Size: bd.Size}
		if bd.Model != nil {
			d.Model = *bd.Model
		}
		if pool, ok := m.owner(d.Path, members); ok {
			d.InUse = true
			d.Pool = pool
		}

		d.Health, err = m.Health(ctx, d.Path)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// Health returns the SMART verdict for a device. smartctl exit bits 0 and 1
// (usage error, device open failure) and a missing binary mean no verdict is
// obtainable, reported as UNAVAILABLE. Other bits still print a verdict.
func (m *Manager) Health(ctx context.Context, path string) (parsers.Health, error) {
	if err := ValidateDevicePath(path); err != nil {
		return "", err
	}

	res, err := m.invoker.Invoke(ctx, m.smartctlBin, "-H", path)
	if err != nil {
		switch {
		case errors.Is(err, errors.CommandStart):
			m.logger.Debug("smartctl unavailable", "device", path, "err", err)
			return parsers.HealthUnavailable, nil
		case res == nil, errors.Is(err, errors.CommandTimeout):
			return "", err
		case res.ExitCode&0x3 != 0:
			return parsers.HealthUnavailable, nil
		}
	}
	return m.parsers.Health.ParseHealth(res.Stdout), nil
}

// Claims maps each of devices that already belongs to a live pool to that
// pool. Every conflict is reported.
func (m *Manager) Claims(ctx context.Context, devices []string) (map[string]string, error) {
	members, err := m.members.AllMemberDevices(ctx)
	if err != nil {
		return nil, err
	}

	claims := make(map[string]string)
	for _, dev := range devices {
		if pool, ok := m.owner(dev, members); ok {
			claims[dev] = pool
		}
	}
	return claims, nil
}

func (m *Manager) owner(device string, members map[string][]string) (string, bool) {
	for pool, devs := range members {
		for _, member := range devs {
			if MatchMember(device, member, m.resolve) {
				return pool, true
			}
		}
	}
	return "", false
}

// MatchMember reports whether a pool member is device itself or one of its
// partitions (sdb1, nvme0n1p2, md1p1), comparing resolved paths.
func MatchMember(device, member string, resolve Resolver) bool {
	if resolve == nil {
		resolve = filepath.Clean
	}
	device, member = resolve(device), resolve(member)
	if device == member {
		return true
	}
	rest, ok := strings.CutPrefix(member, device)
	if !ok || device == "" {
		return false
	}
	if last := device[len(device)-1]; last >= '0' && last <= '9' {
		return pPartitionSuffix.MatchString(rest)
	}
	return partitionSuffix.MatchString(rest)
}

// ValidateDevicePath accepts absolute, clean paths under /dev.
func ValidateDevicePath(path string) error {
	if !strings.HasPrefix(path, "/dev/") || filepath.Clean(path) != path {
		return errors.New(errors.DiskInvalidPath, "device path must be a clean path under /dev").
			WithMetadata("path", path)
	}
	return nil
}
