// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// The server runs gin behind a plain http.Server rather than gin.Run so that
// shutdown is driven by the lifecycle context: cancelling it drains
// in-flight requests, stops the divergence auditor and closes the journal.

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/config"
	"github.com/stratastor/warren/internal/command"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/journal"
	"github.com/stratastor/warren/pkg/orchestrator"
	"github.com/stratastor/warren/pkg/shares/audit"
)

const shutdownTimeout = 10 * time.Second

// Server owns the listener and every long-lived component behind it.
type Server struct {
	logger  logger.Logger
	cfg     *config.Config
	engine  *gin.Engine
	srv     *http.Server
	ctl     *orchestrator.Controller
	journal *journal.Journal
	auditor *audit.Auditor
}

// New wires the controller onto invoker and builds the router. The journal
// is opened here so a bad journal path fails before the port is bound.
func New(cfg *config.Config, l logger.Logger, invoker command.Invoker) (*Server, error) {
	auditLog, err := logger.NewTag(config.NewLoggerConfig(cfg), "audit")
	if err != nil {
		return nil, err
	}

	s := &Server{logger: l, cfg: cfg}

	var sinks []orchestrator.AuditSink
	if cfg.Journal.Enabled {
		s.journal, err = journal.Open(l, journal.Config{Path: cfg.Journal.Path, Retain: cfg.Journal.Retain})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s.journal)
	}

	s.ctl = orchestrator.NewWithInvoker(l, auditLog, invoker, ToolsFromConfig(cfg), sinks...)

	if cfg.Audit.Enabled {
		s.auditor, err = audit.New(l, s.ctl, audit.Config{
			Interval:    cfg.AuditInterval(),
			Watch:       cfg.Audit.Watch,
			ExportsFile: cfg.NFS.ExportsFile,
		})
		if err != nil {
			s.closeJournal()
			return nil, err
		}
	}

	s.engine, err = NewRouter(l, cfg, s.ctl, s.journal)
	if err != nil {
		s.closeJournal()
		return nil, err
	}
	return s, nil
}

// ToolsFromConfig maps the tools and nfs sections onto orchestrator.Tools.
func ToolsFromConfig(cfg *config.Config) orchestrator.Tools {
	return orchestrator.Tools{
		ZFS:            cfg.Tools.ZFS,
		Zpool:          cfg.Tools.Zpool,
		Chmod:          cfg.Tools.Chmod,
		Lsblk:          cfg.Tools.Lsblk,
		Smartctl:       cfg.Tools.Smartctl,
		Exportfs:       cfg.Tools.Exportfs,
		Systemctl:      cfg.Tools.Systemctl,
		ExportsFile:    cfg.NFS.ExportsFile,
		NFSUnit:        cfg.NFS.Unit,
		DefaultOptions: cfg.NFS.DefaultOptions,
	}
}

// NewRunner builds the exec-backed invoker from the tools section.
func NewRunner(cfg *config.Config, l logger.Logger) *command.Runner {
	opts := []command.Option{command.WithTimeout(cfg.ToolTimeout())}
	if cfg.Tools.Sudo {
		opts = append(opts, command.WithSudo(
			cfg.Tools.ZFS,
			cfg.Tools.Zpool,
			cfg.Tools.Chmod,
			cfg.Tools.Smartctl,
			cfg.Tools.Exportfs,
			cfg.Tools.Systemctl,
		))
	}
	return command.NewRunner(l, opts...)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	if s.auditor != nil {
		if err := s.auditor.Start(ctx); err != nil {
			return err
		}
	}

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	s.logger.Info("Server listening", "port", s.cfg.Server.Port)

	select {
	case err := <-errChan:
		s.stopComponents()
		return errors.Wrap(err, errors.ServerStart).
			WithMetadata("port", fmt.Sprint(s.cfg.Server.Port))
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.srv != nil {
		if serr := s.srv.Shutdown(ctx); serr != nil {
			err = errors.Wrap(serr, errors.ServerShutdown)
		}
	}
	s.stopComponents()
	s.logger.Info("Server stopped")
	return err
}

func (s *Server) stopComponents() {
	if s.auditor != nil {
		if err := s.auditor.Stop(); err != nil {
			s.logger.Warn("Failed to stop divergence auditor", "err", err)
		}
	}
	s.closeJournal()
}

func (s *Server) closeJournal() {
	if s.journal == nil {
		return
	}
	if err := s.journal.Close(); err != nil {
		s.logger.Warn("Failed to close operation journal", "err", err)
	}
	s.journal = nil
}

// SetGinMode picks the gin mode for an environment name.
func SetGinMode(environment string) {
	switch environment {
	case "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}

// AuditNow runs an out-of-schedule divergence check. It reports false when
// the auditor is disabled.
func (s *Server) AuditNow(ctx context.Context, trigger string) (audit.Result, bool) {
	if s.auditor == nil {
		return audit.Result{}, false
	}
	return s.auditor.Check(ctx, trigger), true
}
