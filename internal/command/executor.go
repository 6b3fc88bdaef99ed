// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/stratastor/logger"
	wterrors "github.com/stratastor/warren/pkg/errors"
)

// Dangerous characters that could enable command injection if an argument
// ever reached a shell. Nothing here runs through a shell; the check keeps
// user-supplied names honest.
var dangerousChars = "&|><$`\\;{}\x00\n\r"

const defaultMaxArgs = 256

// Result is the raw outcome of one invocation.
type Result struct {
	Argv     []string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Invoker runs an argument vector and classifies its exit status.
//
// A nonzero exit returns both the Result and a KindTool error carrying stderr
// and argv. Nothing is retried.
type Invoker interface {
	Invoke(ctx context.Context, argv ...string) (*Result, error)
}

// Runner is the exec-backed Invoker.
type Runner struct {
	logger  logger.Logger
	timeout time.Duration
	maxArgs int
	sudo    map[string]bool
}

type Option func(*Runner)

// WithTimeout bounds every invocation. Zero leaves invocations unbounded
// beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithSudo prefixes "sudo" when the binary's base name is in binaries.
func WithSudo(binaries ...string) Option {
	return func(r *Runner) {
		for _, b := range binaries {
			r.sudo[filepath.Base(b)] = true
		}
	}
}

// WithMaxArgs overrides the argument count ceiling.
func WithMaxArgs(n int) Option {
	return func(r *Runner) { r.maxArgs = n }
}

func NewRunner(l logger.Logger, opts ...Option) *Runner {
	r := &Runner{
		logger:  l,
		maxArgs: defaultMaxArgs,
		sudo:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Invoke(ctx context.Context, argv ...string) (*Result, error) {
	if err := r.validate(argv); err != nil {
		return nil, err
	}

	if r.sudo[filepath.Base(argv[0])] {
		argv = append([]string{"sudo", "-n"}, argv...)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	binary := filepath.Base(commandBinary(argv))
	cmdString := shellquote.Join(argv...)
	r.logger.Debug("Executing command", "cmd", cmdString)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	// Fixed locale keeps column headers and number formats stable for the parsers.
	cmd.Env = []string{"PATH=/usr/sbin:/usr/bin:/sbin:/bin", "LC_ALL=C"}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	res := &Result{
		Argv:     argv,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	commandDuration.WithLabelValues(binary).Observe(res.Duration.Seconds())

	if runErr == nil {
		commandTotal.WithLabelValues(binary, outcomeSuccess).Inc()
		return res, nil
	}

	if ctx.Err() != nil {
		commandTotal.WithLabelValues(binary, outcomeTimeout).Inc()
		res.ExitCode = -1
		r.logger.Error("Command cancelled", "cmd", cmdString, "err", ctx.Err())
		return res, wterrors.Wrap(ctx.Err(), wterrors.CommandTimeout).
			WithMetadata(wterrors.MetaCommand, cmdString).
			WithMetadata(wterrors.MetaStderr, string(res.Stderr))
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		commandTotal.WithLabelValues(binary, outcomeFailure).Inc()
		res.ExitCode = exitErr.ExitCode()
		r.logger.Debug("Command exited nonzero",
			"cmd", cmdString,
			"exit_code", res.ExitCode,
			"stderr", string(res.Stderr))
		return res, wterrors.NewToolError(argv, res.ExitCode, string(res.Stderr))
	}

	commandTotal.WithLabelValues(binary, outcomeStartError).Inc()
	res.ExitCode = -1
	r.logger.Error("Command could not start", "cmd", cmdString, "err", runErr)
	return res, wterrors.Wrap(runErr, wterrors.CommandStart).
		WithMetadata(wterrors.MetaCommand, cmdString)
}

func (r *Runner) validate(argv []string) error {
	if len(argv) == 0 || argv[0] == "" {
		return wterrors.New(wterrors.CommandNotFound, "empty command")
	}

	name := argv[0]
	if !strings.HasPrefix(name, "/") && strings.ContainsAny(name, "/\\") {
		return wterrors.New(
			wterrors.CommandInvalidInput,
			"relative paths are not allowed for commands",
		)
	}

	if len(argv)-1 > r.maxArgs {
		return wterrors.New(wterrors.CommandInvalidInput, "too many arguments")
	}

	for _, arg := range argv {
		if err := CheckArgument(arg); err != nil {
			return err
		}
	}

	return nil
}

// CheckArgument applies the per-argument rules the Runner enforces, so
// callers can reject input before any command runs.
func CheckArgument(arg string) error {
	if strings.ContainsAny(arg, dangerousChars) {
		return wterrors.New(
			wterrors.CommandInvalidInput,
			"argument contains invalid characters",
		).WithMetadata("argument", arg)
	}
	for _, part := range strings.Split(arg, "/") {
		if part == ".." {
			return wterrors.New(wterrors.CommandInvalidInput, "path traversal not allowed").
				WithMetadata("argument", arg)
		}
	}
	return nil
}

// commandBinary skips a sudo prefix so metrics are labelled by the tool.
func commandBinary(argv []string) string {
	for i, a := range argv {
		if a == "sudo" || (i > 0 && argv[0] == "sudo" && strings.HasPrefix(a, "-")) {
			continue
		}
		return a
	}
	return argv[0]
}
