// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stratastor/logger"
	wterrors "github.com/stratastor/warren/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T, opts ...Option) *Runner {
	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "command-test")
	require.NoError(t, err)
	return NewRunner(l, opts...)
}

func TestCommandSecurity(t *testing.T) {
	r := newTestRunner(t, WithMaxArgs(4))

	tests := []struct {
		name string
		argv []string
		code wterrors.ErrorCode
	}{
		{"empty_argv", nil, wterrors.CommandNotFound},
		{"relative_binary", []string{"bin/zfs", "list"}, wterrors.CommandInvalidInput},
		{"semicolon", []string{"zfs", "create", "tank/a;rm -rf /"}, wterrors.CommandInvalidInput},
		{"newline", []string{"zfs", "create", "tank/a\nb"}, wterrors.CommandInvalidInput},
		{"path_traversal", []string{"zfs", "create", "../../etc"}, wterrors.CommandInvalidInput},
		{"too_many_args", []string{"zfs", "a", "b", "c", "d", "e"}, wterrors.CommandInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Invoke(context.Background(), tt.argv...)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, wterrors.Is(err, tt.code), "got %v", err)
			assert.Equal(t, wterrors.KindValidation, wterrors.KindOf(err))
		})
	}
}

func TestCheckArgument(t *testing.T) {
	assert.NoError(t, CheckArgument("compression=lz4"))
	assert.NoError(t, CheckArgument("/tank/data..old"))

	for _, arg := range []string{"a&b", "a|b", "a>b", "a`b", "a\\b", "a{b}", "tank/../etc", ".."} {
		err := CheckArgument(arg)
		assert.True(t, wterrors.Is(err, wterrors.CommandInvalidInput), "arg %q", arg)
	}
}

func TestInvokeClassification(t *testing.T) {
	if _, err := exec.LookPath("ls"); err != nil {
		t.Skip("ls not available")
	}
	r := newTestRunner(t)

	t.Run("Success", func(t *testing.T) {
		res, err := r.Invoke(context.Background(), "echo", "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(res.Stdout))
		assert.Equal(t, 0, res.ExitCode)
	})

	t.Run("NonzeroExitIsToolFailure", func(t *testing.T) {
		res, err := r.Invoke(context.Background(), "ls", "/definitely/not/here")
		require.Error(t, err)
		require.NotNil(t, res)
		assert.NotZero(t, res.ExitCode)
		assert.NotEmpty(t, res.Stderr)

		we, ok := wterrors.As(err)
		require.True(t, ok)
		assert.Equal(t, wterrors.KindTool, we.Kind)
		assert.Equal(t, string(res.Stderr), we.Metadata[wterrors.MetaStderr])
		assert.Equal(t, "ls /definitely/not/here", we.Metadata[wterrors.MetaCommand])
	})

	t.Run("MissingBinary", func(t *testing.T) {
		_, err := r.Invoke(context.Background(), "/nonexistent/warren-tool")
		require.Error(t, err)
		assert.True(t, wterrors.Is(err, wterrors.CommandStart))
	})
}

func TestInvokeTimeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	r := newTestRunner(t, WithTimeout(50*time.Millisecond))

	_, err := r.Invoke(context.Background(), "sleep", "5")
	require.Error(t, err)
	assert.True(t, wterrors.Is(err, wterrors.CommandTimeout))
}

func TestCommandBinary(t *testing.T) {
	assert.Equal(t, "/usr/sbin/zpool", commandBinary([]string{"sudo", "-n", "/usr/sbin/zpool", "list"}))
	assert.Equal(t, "exportfs", commandBinary([]string{"exportfs", "-ra"}))
}
