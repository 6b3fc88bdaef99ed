// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/stratastor/warren/pkg/disk"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/shares/nfs"
	"github.com/stratastor/warren/pkg/zfs/common"
	"github.com/stratastor/warren/pkg/zfs/dataset"
	"github.com/stratastor/warren/pkg/zfs/pool"
	"github.com/stratastor/warren/pkg/zfs/snapshot"
	"golang.org/x/exp/maps"
)

// Live state sources. Every check queries them afresh; nothing is cached.
type (
	PoolLister interface {
		Names(ctx context.Context) ([]string, error)
	}
	FilesystemLister interface {
		List(ctx context.Context) ([]dataset.Filesystem, error)
	}
	SnapshotLister interface {
		List(ctx context.Context, filesystem string) ([]snapshot.Snapshot, error)
	}
	DeviceClaims interface {
		Claims(ctx context.Context, devices []string) (map[string]string, error)
	}
	RecordLister interface {
		List() ([]nfs.Record, error)
	}
)

// Validator runs precondition chains. Each chain stops at the first
// violation and never invokes a mutating tool.
type Validator struct {
	pools       PoolLister
	filesystems FilesystemLister
	snapshots   SnapshotLister
	devices     DeviceClaims
	records     RecordLister
}

func NewValidator(
	pools PoolLister,
	filesystems FilesystemLister,
	snapshots SnapshotLister,
	devices DeviceClaims,
	records RecordLister,
) *Validator {
	return &Validator{
		pools:       pools,
		filesystems: filesystems,
		snapshots:   snapshots,
		devices:     devices,
		records:     records,
	}
}

// PoolCreate: name, redundancy, device paths, repeats within the request,
// minimum count, name uniqueness, then device ownership.
func (v *Validator) PoolCreate(ctx context.Context, cfg *pool.CreateConfig) error {
	if err := common.ValidatePoolName(cfg.Name); err != nil {
		return &Violation{Kind: InvalidName, Resource: KindPool, Field: "name", Detail: detail(err)}
	}

	mode, err := common.ParseRedundancy(string(cfg.Redundancy))
	if err != nil {
		return &Violation{
			Kind:     InvalidArgument,
			Resource: KindPool,
			Field:    "redundancy",
			Detail:   fmt.Sprintf("unknown redundancy mode %q", cfg.Redundancy),
		}
	}
	cfg.Redundancy = mode

	if len(cfg.Devices) == 0 {
		return &Violation{Kind: InvalidArgument, Resource: KindPool, Field: "devices", Detail: "no devices given"}
	}

	all := append(append([]string(nil), cfg.Devices...), cfg.Spares...)
	var bad []string
	for _, dev := range all {
		if disk.ValidateDevicePath(dev) != nil {
			bad = append(bad, dev)
		}
	}
	if len(bad) > 0 {
		return &Violation{
			Kind:      InvalidArgument,
			Resource:  KindPool,
			Field:     "devices",
			Detail:    "device paths must be clean paths under /dev",
			Conflicts: bad,
		}
	}

	seen := make(map[string]bool, len(all))
	var repeated []string
	for _, dev := range all {
		if seen[dev] {
			repeated = append(repeated, dev)
		}
		seen[dev] = true
	}
	if len(repeated) > 0 {
		return &Violation{
			Kind:      Duplicate,
			Resource:  KindPool,
			Field:     "devices",
			Detail:    "devices listed more than once",
			Conflicts: repeated,
		}
	}

	if need := mode.MinDevices(); len(cfg.Devices) < need {
		return &Violation{
			Kind:     InsufficientDevices,
			Resource: KindPool,
			Field:    "devices",
			Detail:   fmt.Sprintf("%s needs at least %d devices, got %d", mode, need, len(cfg.Devices)),
			Required: need,
		}
	}

	exists, err := v.poolExists(ctx, cfg.Name)
	if err != nil {
		return err
	}
	if exists {
		return &Violation{Kind: AlreadyExists, Resource: KindPool, Field: "name", Detail: cfg.Name}
	}

	claims, err := v.devices.Claims(ctx, all)
	if err != nil {
		return err
	}
	if len(claims) > 0 {
		conflicts := maps.Keys(claims)
		sort.Strings(conflicts)
		owners := make([]string, len(conflicts))
		for i, dev := range conflicts {
			owners[i] = fmt.Sprintf("%s (%s)", dev, claims[dev])
		}
		return &Violation{
			Kind:      InUse,
			Resource:  KindPool,
			Field:     "devices",
			Detail:    "devices belong to a live pool: " + strings.Join(owners, ", "),
			Conflicts: conflicts,
		}
	}
	return nil
}

// PoolPresent checks the name and that the pool is live.
func (v *Validator) PoolPresent(ctx context.Context, name string) error {
	if err := common.ValidatePoolName(name); err != nil {
		return &Violation{Kind: InvalidName, Resource: KindPool, Field: "name", Detail: detail(err)}
	}
	exists, err := v.poolExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return &Violation{Kind: NotFound, Resource: KindPool, Detail: name}
	}
	return nil
}

// FilesystemCreate checks the name, the parent pool, absence of the
// filesystem and the shape of every property.
func (v *Validator) FilesystemCreate(ctx context.Context, name string, props map[string]string) error {
	poolName, _, err := common.SplitFilesystem(name)
	if err != nil {
		return &Violation{Kind: InvalidName, Resource: KindFilesystem, Field: "name", Detail: detail(err)}
	}
	if err := v.validateProperties(props); err != nil {
		return err
	}
	if err := v.PoolPresent(ctx, poolName); err != nil {
		return err
	}

	if _, found, err := v.lookupFilesystem(ctx, name); err != nil {
		return err
	} else if found {
		return &Violation{Kind: AlreadyExists, Resource: KindFilesystem, Detail: name}
	}
	return nil
}

// FilesystemName checks the format of a filesystem name only.
func (v *Validator) FilesystemName(name string) error {
	if _, _, err := common.SplitFilesystem(name); err != nil {
		return &Violation{Kind: InvalidName, Resource: KindFilesystem, Field: "name", Detail: detail(err)}
	}
	return nil
}

// FilesystemPresent checks the name and returns the live filesystem.
func (v *Validator) FilesystemPresent(ctx context.Context, name string) (dataset.Filesystem, error) {
	if err := v.FilesystemName(name); err != nil {
		return dataset.Filesystem{}, err
	}
	fs, found, err := v.lookupFilesystem(ctx, name)
	if err != nil {
		return dataset.Filesystem{}, err
	}
	if !found {
		return dataset.Filesystem{}, &Violation{Kind: NotFound, Resource: KindFilesystem, Detail: name}
	}
	return fs, nil
}

// PropertyNames checks names only, for reads.
func (v *Validator) PropertyNames(names []string) error {
	for _, n := range names {
		if err := common.ValidateProperty(n, "-"); err != nil {
			return &Violation{Kind: InvalidArgument, Resource: KindFilesystem, Field: n, Detail: detail(err)}
		}
	}
	return nil
}

func (v *Validator) validateProperties(props map[string]string) error {
	for k, val := range props {
		if err := common.ValidateProperty(k, val); err != nil {
			return &Violation{Kind: InvalidArgument, Resource: KindFilesystem, Field: k, Detail: detail(err)}
		}
	}
	return nil
}

// SnapshotPresent parses a full snapshot name and confirms it is in the live
// snapshot list. A miss carries the filesystem's other snapshots.
func (v *Validator) SnapshotPresent(ctx context.Context, name string) (common.SnapshotRef, error) {
	ref, err := common.ParseSnapshotRef(name)
	if err != nil {
		return ref, &Violation{Kind: InvalidName, Resource: KindSnapshot, Field: "name", Detail: detail(err)}
	}

	snaps, err := v.snapshots.List(ctx, ref.Filesystem)
	if err != nil {
		return ref, err
	}
	siblings := make([]string, 0, len(snaps))
	for _, s := range snaps {
		if s.Name == name {
			return ref, nil
		}
		siblings = append(siblings, s.Name)
	}
	return ref, &Violation{
		Kind:     NotFound,
		Resource: KindSnapshot,
		Detail:   name,
		Siblings: siblings,
	}
}

// ExportShare checks the record shape and that no record exists for its
// (path, client) pair. The caller holds the exports lock.
func (v *Validator) ExportShare(rec nfs.Record) error {
	if err := rec.Validate(); err != nil {
		return &Violation{Kind: InvalidArgument, Resource: KindExport, Detail: detail(err)}
	}

	records, err := v.records.List()
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.Key() == rec.Key() {
			return &Violation{
				Kind:      Duplicate,
				Resource:  KindExport,
				Detail:    fmt.Sprintf("%s is already exported to %s", rec.Path, rec.Client),
				Conflicts: []string{r.Line()},
			}
		}
	}
	return nil
}

// ExportClient checks a client selector in isolation.
func (v *Validator) ExportClient(client string) error {
	probe := nfs.Record{Path: "/", Client: client}
	if err := probe.Validate(); err != nil {
		return &Violation{Kind: InvalidArgument, Resource: KindExport, Field: "client", Detail: detail(err)}
	}
	return nil
}

// ExportPresent checks that some record matches one of paths and client.
func (v *Validator) ExportPresent(paths []string, client string) error {
	records, err := v.records.List()
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.Client == client && containsString(paths, r.Path) {
			return nil
		}
	}
	return &Violation{
		Kind:     NotFound,
		Resource: KindExport,
		Detail:   fmt.Sprintf("no export of %s to %s", strings.Join(paths, " or "), client),
	}
}

// DevicePath checks a device path for health queries.
func (v *Validator) DevicePath(path string) error {
	if err := disk.ValidateDevicePath(path); err != nil {
		return &Violation{Kind: InvalidName, Resource: KindDevice, Field: "path", Detail: detail(err)}
	}
	return nil
}

func (v *Validator) poolExists(ctx context.Context, name string) (bool, error) {
	names, err := v.pools.Names(ctx)
	if err != nil {
		return false, err
	}
	return containsString(names, name), nil
}

func (v *Validator) lookupFilesystem(ctx context.Context, name string) (dataset.Filesystem, bool, error) {
	all, err := v.filesystems.List(ctx)
	if err != nil {
		return dataset.Filesystem{}, false, err
	}
	for _, fs := range all {
		if fs.Name == name {
			return fs, true, nil
		}
	}
	return dataset.Filesystem{}, false, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// detail prefers a WarrenError's details over its formatted message.
func detail(err error) string {
	if we, ok := errors.As(err); ok && we.Details != "" {
		return we.Details
	}
	return err.Error()
}
