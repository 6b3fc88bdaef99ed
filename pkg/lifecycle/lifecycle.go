// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

var (
	mu            sync.Mutex
	shutdownHooks []func()
	reloadHooks   []func()
	cancel        context.CancelFunc

	exit = os.Exit

	errInvalidPID = errors.New("invalid PID format")
)

// RegisterShutdownHook adds a hook run on SIGTERM or SIGINT. Hooks run in
// reverse registration order, so resources close before what they depend on.
func RegisterShutdownHook(hook func()) {
	mu.Lock()
	defer mu.Unlock()
	shutdownHooks = append(shutdownHooks, hook)
}

// RegisterReloadHook adds a hook run on SIGHUP.
func RegisterReloadHook(hook func()) {
	mu.Lock()
	defer mu.Unlock()
	reloadHooks = append(reloadHooks, hook)
}

func RegisterContextCanceller(c context.CancelFunc) {
	mu.Lock()
	defer mu.Unlock()
	cancel = c
}

func HandleSignals(ctx context.Context) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(stop)

	for {
		select {
		case sig := <-stop:
			switch sig {
			case syscall.SIGTERM, syscall.SIGINT:
				Shutdown()
				exit(0)
				return
			case syscall.SIGHUP:
				Reload()
			}
		case <-ctx.Done():
			return
		}
	}
}

// Shutdown cancels the root context and runs the shutdown hooks once.
func Shutdown() {
	mu.Lock()
	c := cancel
	hooks := shutdownHooks
	shutdownHooks = nil
	mu.Unlock()

	if c != nil {
		c()
	}
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

func Reload() {
	mu.Lock()
	hooks := append([]func(){}, reloadHooks...)
	mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
}

// RunningPID returns the pid recorded in pidPath when that process is
// still alive.
func RunningPID(pidPath string) (int, bool, error) {
	data, err := os.ReadFile(pidPath)
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read PID file: %w", err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return 0, false, nil
	}
	pid, err := strconv.Atoi(content)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", errInvalidPID, err)
	}
	return pid, alive(pid), nil
}

// alive probes pid with signal 0. EPERM still means the process exists.
func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}

func EnsureSingleInstance(pidPath string) error {
	if pidPath == "" {
		return fmt.Errorf("invalid PID file path")
	}

	pid, running, err := RunningPID(pidPath)
	if err != nil && !errors.Is(err, errInvalidPID) {
		return err
	}
	if running && pid != os.Getpid() {
		return fmt.Errorf("another instance is already running (PID: %d)", pid)
	}
	// Stale or unreadable content is replaced below.
	_ = os.Remove(pidPath)

	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	RegisterShutdownHook(func() {
		os.Remove(pidPath)
	})
	return nil
}
