// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/shares/nfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
	div   nfs.Divergence
	err   error
}

func (f *fakeSource) Divergence(context.Context) (nfs.Divergence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.div, f.err
}

func (f *fakeSource) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newAuditor(t *testing.T, src DivergenceSource, cfg Config) *Auditor {
	t.Helper()
	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "test.audit")
	require.NoError(t, err)
	a, err := New(l, src, cfg)
	require.NoError(t, err)
	return a
}

func TestCheckRecordsResult(t *testing.T) {
	src := &fakeSource{div: nfs.Divergence{
		FileOnly: []nfs.Key{{Path: "/tank/data", Client: "*"}},
	}}
	a := newAuditor(t, src, Config{})

	_, ok := a.Last()
	assert.False(t, ok)

	res := a.Check(context.Background(), "manual")
	assert.False(t, res.InSync())
	assert.Equal(t, "manual", res.Trigger)

	last, ok := a.Last()
	require.True(t, ok)
	assert.Equal(t, res.Divergence, last.Divergence)
}

func TestCheckFailure(t *testing.T) {
	src := &fakeSource{err: errors.New(errors.SharesLiveListFailed, "exportfs missing")}
	a := newAuditor(t, src, Config{})

	res := a.Check(context.Background(), "manual")
	assert.False(t, res.InSync())
	assert.Contains(t, res.Err, "exportfs missing")
}

func TestScheduledChecks(t *testing.T) {
	src := &fakeSource{}
	a := newAuditor(t, src, Config{Interval: 50 * time.Millisecond})

	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	assert.Eventually(t, func() bool { return src.count() >= 2 }, 2*time.Second, 10*time.Millisecond)
	last, ok := a.Last()
	require.True(t, ok)
	assert.Equal(t, "schedule", last.Trigger)
	assert.True(t, last.InSync())
}

func TestWatchTriggersCheck(t *testing.T) {
	exports := filepath.Join(t.TempDir(), "exports")
	require.NoError(t, os.WriteFile(exports, nil, 0o644))

	src := &fakeSource{}
	a := newAuditor(t, src, Config{Watch: true, ExportsFile: exports, Debounce: 20 * time.Millisecond})
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(exports), "other"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, src.count())

	require.NoError(t, os.WriteFile(exports, []byte("/srv *(ro)\n"), 0o644))
	assert.Eventually(t, func() bool { return src.count() >= 1 }, 2*time.Second, 10*time.Millisecond)

	last, ok := a.Last()
	require.True(t, ok)
	assert.Equal(t, "watch", last.Trigger)
}

func TestWatchMissingDirectory(t *testing.T) {
	a := newAuditor(t, &fakeSource{}, Config{
		Watch:       true,
		ExportsFile: filepath.Join(t.TempDir(), "absent", "exports"),
	})

	err := a.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.SharesAuditStart))
}
