// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"testing"

	"github.com/stratastor/warren/internal/command/commandtest"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/parsers"
	"github.com/stratastor/warren/pkg/zfs/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(fake *commandtest.Fake) *Manager {
	return NewManager(command.NewCommandExecutor(fake, command.Binaries{ZFS: "zfs", Zpool: "zpool"}),
		parsers.Default())
}

func TestList(t *testing.T) {
	fake := commandtest.NewFake().Set(commandtest.Response{
		Stdout: "tank/data@250101-120000\t0B\tWed Jan  1 12:00 2025\n" +
			"tank/data@250102-120000\t12K\tThu Jan  2 12:00 2025\n" +
			"tank/logs@250101-120000\t0B\tWed Jan  1 12:00 2025\n",
	}, "zfs", "list", "-H", "-t", "snapshot", "-o", "name,used,creation")
	m := newTestManager(fake)

	all, err := m.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	data, err := m.List(context.Background(), "tank/data")
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, "250102-120000", data[1].Label)
	assert.Equal(t, "12K", data[1].Used)
	assert.Equal(t, "Wed Jan  1 12:00 2025", data[0].Creation)
}

func TestCreateCollisionIsToolFailure(t *testing.T) {
	fake := commandtest.NewFake().Set(commandtest.Response{
		Stderr:   "cannot create snapshot 'tank/data@250101-120000': dataset already exists\n",
		ExitCode: 1,
	}, "zfs", "snapshot", "tank/data@250101-120000")
	m := newTestManager(fake)

	_, err := m.Create(context.Background(), "tank/data", "250101-120000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ZFSSnapshotCreate))
	assert.Equal(t, errors.KindTool, errors.KindOf(err))
}

func TestRollbackAndDestroy(t *testing.T) {
	fake := commandtest.NewFake().
		Set(commandtest.Response{}, "zfs", "rollback", "-r", "tank/data@a").
		Set(commandtest.Response{}, "zfs", "destroy", "tank/data@a")
	m := newTestManager(fake)

	require.NoError(t, m.Rollback(context.Background(), "tank/data@a"))
	require.NoError(t, m.Destroy(context.Background(), "tank/data@a"))

	err := m.Destroy(context.Background(), "tank/data")
	assert.True(t, errors.Is(err, errors.ZFSSnapshotInvalidName))
	assert.Len(t, fake.Calls(), 2)
}
