// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package audit periodically compares the exports file with what the NFS
// server is actually exporting, and re-checks whenever the file is edited.
// It only reports; it never repairs.
package audit

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/shares/nfs"
)

const (
	jobName         = "exports-divergence"
	defaultDebounce = 500 * time.Millisecond
)

// DivergenceSource is satisfied by *orchestrator.Controller.
type DivergenceSource interface {
	Divergence(ctx context.Context) (nfs.Divergence, error)
}

type Config struct {
	Interval    time.Duration
	Watch       bool
	ExportsFile string
	// Debounce coalesces bursts of file events into one check.
	Debounce time.Duration
}

// Result is the outcome of one check.
type Result struct {
	Time       time.Time      `json:"time"`
	Divergence nfs.Divergence `json:"divergence"`
	Trigger    string         `json:"trigger"`
	Err        string         `json:"error,omitempty"`
}

func (r Result) InSync() bool {
	return r.Err == "" && r.Divergence.InSync()
}

type Auditor struct {
	logger    logger.Logger
	src       DivergenceSource
	cfg       Config
	scheduler gocron.Scheduler
	watcher   *fsnotify.Watcher

	mu      sync.Mutex
	last    Result
	checked bool
	timer   *time.Timer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(l logger.Logger, src DivergenceSource, cfg Config) (*Auditor, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Wrap(err, errors.SharesAuditStart)
	}
	return &Auditor{logger: l, src: src, cfg: cfg, scheduler: scheduler}, nil
}

// Start schedules the periodic check, running the first one immediately,
// and starts the file watch when enabled.
func (a *Auditor) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)

	if a.cfg.Interval > 0 {
		_, err := a.scheduler.NewJob(
			gocron.DurationJob(a.cfg.Interval),
			gocron.NewTask(func() { a.Check(ctx, "schedule") }),
			gocron.WithName(jobName),
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return errors.Wrap(err, errors.SharesAuditStart).
				WithMetadata("interval", a.cfg.Interval.String())
		}
	}
	a.scheduler.Start()

	if a.cfg.Watch {
		if err := a.startWatch(ctx); err != nil {
			_ = a.scheduler.Shutdown()
			return err
		}
	}

	a.logger.Info("Exports divergence auditor started",
		"interval", a.cfg.Interval,
		"watch", a.cfg.Watch,
		"file", a.cfg.ExportsFile)
	return nil
}

// Stop halts the scheduler and the watch. It is safe to call once after
// Start.
func (a *Auditor) Stop() error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	a.wg.Wait()

	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()

	return a.scheduler.Shutdown()
}

// Check runs one comparison, records it and updates the gauges.
func (a *Auditor) Check(ctx context.Context, trigger string) Result {
	res := Result{Time: time.Now(), Trigger: trigger}

	d, err := a.src.Divergence(ctx)
	checksTotal.WithLabelValues(trigger).Inc()
	if err != nil {
		res.Err = err.Error()
		checkErrors.Inc()
		a.logger.Warn("Exports divergence check failed", "trigger", trigger, "err", err)
	} else {
		res.Divergence = d
		divergentRecords.WithLabelValues("file").Set(float64(len(d.FileOnly)))
		divergentRecords.WithLabelValues("live").Set(float64(len(d.LiveOnly)))
		if d.InSync() {
			a.logger.Debug("Exports file and NFS server agree", "trigger", trigger)
		} else {
			a.logger.Warn("Exports file and NFS server disagree",
				"trigger", trigger,
				"file_only", keys(d.FileOnly),
				"live_only", keys(d.LiveOnly),
				"remediation", "exportfs -ra")
		}
	}

	a.mu.Lock()
	a.last, a.checked = res, true
	a.mu.Unlock()
	return res
}

// Last returns the most recent result, if any check has run.
func (a *Auditor) Last() (Result, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last, a.checked
}

// startWatch watches the directory holding the exports file. Editors and
// the store both replace the file by rename, which drops a watch placed on
// the file itself.
func (a *Auditor) startWatch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.SharesAuditStart)
	}
	dir := filepath.Dir(a.cfg.ExportsFile)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return errors.Wrap(err, errors.SharesAuditStart).WithMetadata("path", dir)
	}
	a.watcher = w

	a.wg.Add(1)
	go a.watch(ctx)
	return nil
}

func (a *Auditor) watch(ctx context.Context) {
	defer a.wg.Done()
	target := filepath.Clean(a.cfg.ExportsFile)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-a.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				a.schedule(ctx)
			}
		case err, ok := <-a.watcher.Errors:
			if !ok {
				return
			}
			a.logger.Warn("Exports file watch error", "err", err)
		}
	}
}

// schedule debounces file events into a single check.
func (a *Auditor) schedule(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.cfg.Debounce, func() {
		if ctx.Err() != nil {
			return
		}
		a.Check(ctx, "watch")
	})
}

func keys(ks []nfs.Key) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.Path + " " + k.Client
	}
	return out
}
