// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package commandtest provides a scripted command.Invoker for tests.
package commandtest

import (
	"context"
	"strings"
	"sync"

	"github.com/stratastor/warren/internal/command"
	wterrors "github.com/stratastor/warren/pkg/errors"
)

// Response is a canned tool outcome.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Fake answers invocations from a table keyed by the space-joined argv.
// Unscripted calls exit 127.
type Fake struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     [][]string
}

func NewFake() *Fake {
	return &Fake{responses: make(map[string]Response)}
}

// Set scripts the response for argv.
func (f *Fake) Set(resp Response, argv ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[strings.Join(argv, " ")] = resp
	return f
}

func (f *Fake) Invoke(ctx context.Context, argv ...string) (*command.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, wterrors.Wrap(err, wterrors.CommandTimeout)
	}

	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), argv...))
	resp, ok := f.responses[strings.Join(argv, " ")]
	f.mu.Unlock()

	if !ok {
		resp = Response{Stderr: "no scripted response\n", ExitCode: 127}
	}

	res := &command.Result{
		Argv:     argv,
		Stdout:   []byte(resp.Stdout),
		Stderr:   []byte(resp.Stderr),
		ExitCode: resp.ExitCode,
	}
	if resp.ExitCode != 0 {
		return res, wterrors.NewToolError(argv, resp.ExitCode, resp.Stderr)
	}
	return res, nil
}

// Calls returns a copy of every argv seen so far.
func (f *Fake) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.calls))
	copy(out, f.calls)
	return out
}
