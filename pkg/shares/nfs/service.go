// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package nfs

import (
	"context"
	"strings"

	"github.com/stratastor/logger"
	"github.com/stratastor/warren/internal/command"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/parsers"
)

const (
	DefaultExportfsPath  = "/usr/sbin/exportfs"
	DefaultSystemctlPath = "/usr/bin/systemctl"
	DefaultUnit          = "nfs-server"

	// exportfs -v prints the "*" wildcard client as <world>.
	worldClient = "<world>"
)

// ServiceConfig holds tool paths and the server unit name.
type ServiceConfig struct {
	ExportfsPath  string
	SystemctlPath string
	Unit          string
}

// ServiceStatus is the decoded `systemctl status` of the NFS server unit.
type ServiceStatus struct {
	Unit    string `json:"unit"`
	Running bool   `json:"running"`
	Active  string `json:"active"`
	Output  string `json:"output"`
}

// Service drives the NFS server: exportfs for the live export table and
// systemctl for the unit.
type Service struct {
	logger    logger.Logger
	invoker   command.Invoker
	parser    parsers.ExportsParser
	exportfs  string
	systemctl string
	unit      string
}

func NewService(l logger.Logger, invoker command.Invoker, p parsers.ExportsParser, cfg ServiceConfig) *Service {
	s := &Service{
		logger:    l,
		invoker:   invoker,
		parser:    p,
		exportfs:  DefaultExportfsPath,
		systemctl: DefaultSystemctlPath,
		unit:      DefaultUnit,
	}
	if cfg.ExportfsPath != "" {
		s.exportfs = cfg.ExportfsPath
	}
	if cfg.SystemctlPath != "" {
		s.systemctl = cfg.SystemctlPath
	}
	if cfg.Unit != "" {
		s.unit = cfg.Unit
	}
	return s
}

// Reload re-exports everything in the exports file (exportfs -ra).
func (s *Service) Reload(ctx context.Context) error {
	if _, err := s.invoker.Invoke(ctx, s.exportfs, "-ra"); err != nil {
		return errors.Wrap(err, errors.SharesServiceFailed).WithMetadata("operation", "reload")
	}
	return nil
}

// Live returns the server's current export table (exportfs -v).
func (s *Service) Live(ctx context.Context) ([]Record, error) {
	res, err := s.invoker.Invoke(ctx, s.exportfs, "-v")
	if err != nil {
		return nil, errors.Wrap(err, errors.SharesLiveListFailed)
	}
	live := Flatten(s.parser.ParseExports(res.Stdout))
	for i := range live {
		if live[i].Client == worldClient {
			live[i].Client = "*"
		}
	}
	return live, nil
}

// Status reports whether the unit is active. systemctl exits 3 for an
// inactive unit and still prints the status block, so stdout is parsed
// whenever it carries an Active line.
func (s *Service) Status(ctx context.Context) (ServiceStatus, error) {
	res, err := s.invoker.Invoke(ctx, s.systemctl, "-l", "status", s.unit)

	st := ServiceStatus{Unit: s.unit}
	if res != nil {
		st.Output = string(res.Stdout)
		for _, line := range strings.Split(st.Output, "\n") {
			if v, ok := strings.CutPrefix(strings.TrimSpace(line), "Active:"); ok {
				st.Active = strings.TrimSpace(v)
				st.Running = strings.HasPrefix(st.Active, "active")
				return st, nil
			}
		}
	}
	if err != nil {
		return st, errors.Wrap(err, errors.SharesServiceFailed).
			WithMetadata("operation", "status").
			WithMetadata("service", s.unit)
	}
	return st, nil
}

// Enable enables and starts the unit.
func (s *Service) Enable(ctx context.Context) error {
	return s.unitCommand(ctx, "enable")
}

// Disable stops and disables the unit.
func (s *Service) Disable(ctx context.Context) error {
	return s.unitCommand(ctx, "disable")
}

func (s *Service) unitCommand(ctx context.Context, action string) error {
	if _, err := s.invoker.Invoke(ctx, s.systemctl, action, "--now", s.unit); err != nil {
		return errors.Wrap(err, errors.SharesServiceFailed).
			WithMetadata("operation", action).
			WithMetadata("service", s.unit)
	}
	s.logger.Info("NFS service updated", "action", action, "service", s.unit)
	return nil
}
