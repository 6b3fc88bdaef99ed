// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/shares/nfs"
)

const reloadRemediation = "exports file is updated but the NFS server was not reloaded; run 'exportfs -ra'"

// ShareRequest exports a filesystem to one client. Empty Options means the
// configured default options.
type ShareRequest struct {
	Filesystem string   `json:"filesystem" binding:"required"`
	Client     string   `json:"client" binding:"required"`
	Options    []string `json:"options,omitempty"`
}

// UnshareRequest withdraws one client's export of a filesystem.
type UnshareRequest struct {
	Filesystem string `json:"filesystem" binding:"required"`
	Client     string `json:"client" binding:"required"`
}

type exportShare struct {
	c      *Controller
	req    ShareRequest
	record nfs.Record
}

func (op *exportShare) Validate(ctx context.Context) error {
	fs, err := op.c.validator.FilesystemPresent(ctx, op.req.Filesystem)
	if err != nil {
		return err
	}
	op.record = nfs.Record{
		Path:    exportPath(fs.Name, fs.Mountpoint),
		Client:  op.req.Client,
		Options: op.req.Options,
	}.WithDefaultOptions(op.c.defaultOptions)
	return op.c.validator.ExportShare(op.record)
}

func (op *exportShare) Mutate(ctx context.Context) error {
	if err := op.c.exports.Append(op.record); err != nil {
		return err
	}
	return op.c.reload(ctx, op.record)
}

type exportUnshare struct {
	c     *Controller
	req   UnshareRequest
	paths []string
}

func (op *exportUnshare) Validate(ctx context.Context) error {
	if err := op.c.validator.FilesystemName(op.req.Filesystem); err != nil {
		return err
	}
	if err := op.c.validator.ExportClient(op.req.Client); err != nil {
		return err
	}

	paths, err := op.c.exportPaths(ctx, op.req.Filesystem)
	if err != nil {
		return err
	}
	op.paths = paths
	return op.c.validator.ExportPresent(op.paths, op.req.Client)
}

func (op *exportUnshare) Mutate(ctx context.Context) error {
	removed, err := op.c.exports.RemoveMatching(func(r nfs.Record) bool {
		return r.Client == op.req.Client && containsString(op.paths, r.Path)
	})
	if err != nil {
		return err
	}
	if !removed {
		return &Violation{Kind: NotFound, Resource: KindExport, Detail: op.req.Filesystem + " " + op.req.Client}
	}
	return op.c.reload(ctx, nfs.Record{Path: op.paths[0], Client: op.req.Client})
}

// Share appends an export record and reloads the NFS server. The exports
// lock is held from validation through reload.
func (c *Controller) Share(ctx context.Context, req ShareRequest) (nfs.Record, error) {
	c.exportsMu.Lock()
	defer c.exportsMu.Unlock()

	op := &exportShare{c: c, req: req}
	err := c.run(ctx, Operation{
		Name:     "export.share",
		Kind:     KindExport,
		Resource: req.Filesystem,
		Params: map[string]string{
			"client":  req.Client,
			"options": strings.Join(req.Options, ","),
		},
		From: StateAbsent,
		To:   StatePresent,
		Cap:  op,
	})
	return op.record, err
}

// Unshare removes the record for (filesystem, client). Matching is on the
// parsed path and client fields; tank/data never matches tank/data2.
func (c *Controller) Unshare(ctx context.Context, req UnshareRequest) error {
	c.exportsMu.Lock()
	defer c.exportsMu.Unlock()

	return c.run(ctx, Operation{
		Name:     "export.unshare",
		Kind:     KindExport,
		Resource: req.Filesystem,
		Params:   map[string]string{"client": req.Client},
		From:     StatePresent,
		To:       StateAbsent,
		Cap:      &exportUnshare{c: c, req: req},
	})
}

// ListExports returns the live daemon view.
func (c *Controller) ListExports(ctx context.Context) ([]nfs.Record, error) {
	return c.nfs.Live(ctx)
}

// ExportRecords returns the exports file view.
func (c *Controller) ExportRecords() ([]nfs.Record, error) {
	return c.exports.List()
}

// ExportDetail returns the live exports of one filesystem.
func (c *Controller) ExportDetail(ctx context.Context, filesystem string) ([]nfs.Record, error) {
	var paths []string
	if err := c.read(ctx, "export.detail", KindExport, filesystem, func(ctx context.Context) (err error) {
		if err = c.validator.FilesystemName(filesystem); err != nil {
			return err
		}
		paths, err = c.exportPaths(ctx, filesystem)
		return err
	}); err != nil {
		return nil, err
	}

	live, err := c.nfs.Live(ctx)
	if err != nil {
		return nil, err
	}
	var out []nfs.Record
	for _, r := range live {
		if containsString(paths, r.Path) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Divergence compares the exports file with the live daemon view. It waits
// for any share or unshare in flight, so a record written but not yet
// reloaded is never reported.
func (c *Controller) Divergence(ctx context.Context) (nfs.Divergence, error) {
	c.exportsMu.Lock()
	defer c.exportsMu.Unlock()

	file, err := c.exports.List()
	if err != nil {
		return nfs.Divergence{}, err
	}
	live, err := c.nfs.Live(ctx)
	if err != nil {
		return nfs.Divergence{}, err
	}
	return nfs.Diff(file, live), nil
}

func (c *Controller) reload(ctx context.Context, rec nfs.Record) error {
	if err := c.nfs.Reload(ctx); err != nil {
		reloadDivergence.Inc()
		c.logger.Error("Exports file and NFS server diverged",
			"path", rec.Path,
			"client", rec.Client,
			"file", c.exports.Path(),
			"err", err)
		return errors.Wrap(err, errors.SharesReloadDiverged).
			WithMetadata(errors.MetaRemediation, reloadRemediation).
			WithMetadata("path", rec.Path).
			WithMetadata("client", rec.Client)
	}
	return nil
}

// exportPaths lists the paths a filesystem may be exported under: its
// mountpoint when live and absolute, and the conventional /<name>.
func (c *Controller) exportPaths(ctx context.Context, filesystem string) ([]string, error) {
	fs, found, err := c.validator.lookupFilesystem(ctx, filesystem)
	if err != nil {
		return nil, err
	}
	fallback := "/" + filesystem
	if !found {
		return []string{fallback}, nil
	}
	path := exportPath(fs.Name, fs.Mountpoint)
	if path == fallback {
		return []string{path}, nil
	}
	return []string{path, fallback}, nil
}

func exportPath(name, mountpoint string) string {
	if filepath.IsAbs(mountpoint) {
		return filepath.Clean(mountpoint)
	}
	return "/" + name
}

// NFSStatus reports the NFS server unit state.
func (c *Controller) NFSStatus(ctx context.Context) (nfs.ServiceStatus, error) {
	return c.nfs.Status(ctx)
}

// EnableNFS enables and starts the NFS server unit.
func (c *Controller) EnableNFS(ctx context.Context) error {
	return c.serviceAction(ctx, "service.enable", c.nfs.Enable)
}

// DisableNFS disables and stops the NFS server unit.
func (c *Controller) DisableNFS(ctx context.Context) error {
	return c.serviceAction(ctx, "service.disable", c.nfs.Disable)
}

type serviceControl func(ctx context.Context) error

func (serviceControl) Validate(context.Context) error     { return nil }
func (s serviceControl) Mutate(ctx context.Context) error { return s(ctx) }

func (c *Controller) serviceAction(ctx context.Context, name string, fn func(context.Context) error) error {
	return c.run(ctx, Operation{
		Name:     name,
		Kind:     KindService,
		Resource: "nfs",
		From:     StatePresent,
		To:       StatePresent,
		Cap:      serviceControl(fn),
	})
}
