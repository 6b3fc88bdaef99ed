// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T, retain int) *Journal {
	t.Helper()
	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "test.journal")
	require.NoError(t, err)

	j, err := Open(l, Config{InMemory: true, Retain: retain})
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func record(i int) orchestrator.AuditRecord {
	return orchestrator.AuditRecord{
		ID:        fmt.Sprintf("op-%03d", i),
		Time:      time.Date(2025, 1, 6, 10, 0, i, 0, time.UTC),
		Operation: "pool.create",
		Kind:      orchestrator.KindPool,
		Resource:  "tank",
		Outcome:   orchestrator.OutcomeSuccess,
	}
}

func TestListNewestFirst(t *testing.T) {
	j := openTestJournal(t, 0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(ctx, record(i)))
	}

	got, err := j.List(3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "op-004", got[0].ID)
	assert.Equal(t, "op-003", got[1].ID)
	assert.Equal(t, "op-002", got[2].ID)
	assert.Equal(t, orchestrator.OutcomeSuccess, got[0].Outcome)
	assert.True(t, record(4).Time.Equal(got[0].Time))
}

func TestListEmpty(t *testing.T) {
	j := openTestJournal(t, 0)

	got, err := j.List(0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRetentionDropsOldest(t *testing.T) {
	j := openTestJournal(t, 3)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, j.Record(ctx, record(i)))
	}

	got, err := j.List(10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"op-006", "op-005", "op-004"},
		[]string{got[0].ID, got[1].ID, got[2].ID})

	_, found, err := j.Get("op-000")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGet(t *testing.T) {
	j := openTestJournal(t, 0)
	ctx := context.Background()

	rec := record(1)
	rec.Outcome = orchestrator.OutcomeRejected
	rec.ErrorKind = errors.KindValidation
	rec.Code = errors.ZFSInvalidName
	require.NoError(t, j.Record(ctx, rec))

	got, found, err := j.Get(rec.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, orchestrator.OutcomeRejected, got.Outcome)
	assert.Equal(t, errors.KindValidation, got.ErrorKind)
	assert.Equal(t, errors.ZFSInvalidName, got.Code)
}

func TestConcurrentRecords(t *testing.T) {
	j := openTestJournal(t, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, j.Record(ctx, record(i)))
		}(i)
	}
	wg.Wait()

	got, err := j.List(100)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

func TestPersistsAcrossReopen(t *testing.T) {
	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "test.journal")
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), "journal")

	j, err := Open(l, Config{Path: dir})
	require.NoError(t, err)
	require.NoError(t, j.Record(context.Background(), record(1)))
	require.NoError(t, j.Close())

	j, err = Open(l, Config{Path: dir})
	require.NoError(t, err)
	defer j.Close()
	require.NoError(t, j.Record(context.Background(), record(2)))

	got, err := j.List(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "op-002", got[0].ID)
}
