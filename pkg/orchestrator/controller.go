// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package orchestrator validates, performs and audits lifecycle operations
// on pools, filesystems, snapshots, exports and devices.
//
// Every mutating operation runs its complete precondition chain against live
// tool state before the first mutating invocation. Nothing is retried and
// multi-step operations are not rolled back: a failure reports the step that
// failed and the steps that completed.
package orchestrator

import (
	"sync"
	"time"

	"github.com/stratastor/logger"
	"github.com/stratastor/warren/internal/command"
	"github.com/stratastor/warren/pkg/disk"
	"github.com/stratastor/warren/pkg/parsers"
	"github.com/stratastor/warren/pkg/shares/nfs"
	zfscmd "github.com/stratastor/warren/pkg/zfs/command"
	"github.com/stratastor/warren/pkg/zfs/dataset"
	"github.com/stratastor/warren/pkg/zfs/pool"
	"github.com/stratastor/warren/pkg/zfs/snapshot"
)

// Deps are the collaborators a Controller drives.
type Deps struct {
	Logger    logger.Logger
	AuditLog  logger.Logger
	Pools     *pool.Manager
	Datasets  *dataset.Manager
	Snapshots *snapshot.Manager
	Disks     *disk.Manager
	Exports   *nfs.Store
	NFS       *nfs.Service
	Sinks     []AuditSink
	Now       func() time.Time

	// DefaultOptions replace nfs.DefaultOptions for shares that carry none.
	DefaultOptions []string
}

// Controller is the lifecycle controller.
type Controller struct {
	logger    logger.Logger
	auditLog  logger.Logger
	pools     *pool.Manager
	datasets  *dataset.Manager
	snapshots *snapshot.Manager
	disks     *disk.Manager
	exports   *nfs.Store
	nfs       *nfs.Service
	validator *Validator
	sinks     []AuditSink
	now       func() time.Time

	defaultOptions []string

	// exportsMu spans validate, write and reload of a share or unshare, and
	// every divergence check.
	exportsMu sync.Mutex
}

func New(d Deps) *Controller {
	c := &Controller{
		logger:    d.Logger,
		auditLog:  d.AuditLog,
		pools:     d.Pools,
		datasets:  d.Datasets,
		snapshots: d.Snapshots,
		disks:     d.Disks,
		exports:   d.Exports,
		nfs:       d.NFS,
		sinks:     d.Sinks,
		now:       d.Now,

		defaultOptions: d.DefaultOptions,
	}
	if len(c.defaultOptions) == 0 {
		c.defaultOptions = nfs.DefaultOptions
	}
	if c.auditLog == nil {
		c.auditLog = d.Logger
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.validator = NewValidator(d.Pools, d.Datasets, d.Snapshots, d.Disks, d.Exports)
	return c
}

// Tools locates the external binaries and files.
type Tools struct {
	ZFS         string
	Zpool       string
	Chmod       string
	Lsblk       string
	Smartctl    string
	Exportfs    string
	Systemctl   string
	ExportsFile string
	NFSUnit     string

	DefaultOptions []string
}

// NewWithInvoker wires every manager onto one invoker and the default
// parser set.
func NewWithInvoker(l, auditLog logger.Logger, invoker command.Invoker, tools Tools, sinks ...AuditSink) *Controller {
	p := parsers.Default()
	exec := zfscmd.NewCommandExecutor(invoker, zfscmd.Binaries{ZFS: tools.ZFS, Zpool: tools.Zpool})
	pools := pool.NewManager(exec, p)

	return New(Deps{
		Logger:    l,
		AuditLog:  auditLog,
		Pools:     pools,
		Datasets:  dataset.NewManager(exec, invoker, p).WithChmod(tools.Chmod),
		Snapshots: snapshot.NewManager(exec, p),
		Disks: disk.NewManager(l, invoker, p, pools, disk.Config{
			LsblkPath:    tools.Lsblk,
			SmartctlPath: tools.Smartctl,
		}),
		Exports: nfs.NewStore(tools.ExportsFile, p.Exports),
		NFS: nfs.NewService(l, invoker, p.Exports, nfs.ServiceConfig{
			ExportfsPath:  tools.Exportfs,
			SystemctlPath: tools.Systemctl,
			Unit:          tools.NFSUnit,
		}),
		Sinks:          sinks,
		DefaultOptions: tools.DefaultOptions,
	})
}

// WithClock replaces the clock used for snapshot labels and audit times.
func (c *Controller) WithClock(now func() time.Time) *Controller {
	if now != nil {
		c.now = now
	}
	return c
}

// Validator exposes the precondition checks.
func (c *Controller) Validator() *Validator {
	return c.validator
}
