// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package disk

import (
	"context"
	"testing"

	"github.com/stratastor/logger"
	"github.com/stratastor/warren/internal/command/commandtest"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/parsers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticMembers map[string][]string

func (s staticMembers) AllMemberDevices(context.Context) (map[string][]string, error) {
	return s, nil
}

const lsblkOut = `{
   "blockdevices": [
      {"name":"sda", "path":"/dev/sda", "size":"20G", "model":"QEMU HARDDISK   ", "type":"disk"},
      {"name":"sdb", "path":"/dev/sdb", "size":"10G", "model":null, "type":"disk"},
      {"name":"sr0", "path":"/dev/sr0", "size":"1024M", "model":"QEMU DVD-ROM", "type":"rom"},
      {"name":"nvme0n1", "size":"100G", "model":"Samsung SSD", "type":"disk"}
   ]
}`

const smartPassed = "=== START OF READ SMART DATA SECTION ===\n" +
	"SMART overall-health self-assessment test result: PASSED\n"

const smartFailed = "=== START OF READ SMART DATA SECTION ===\n" +
	"SMART overall-health self-assessment test result: FAILED!\n"

func newTestManager(t *testing.T, fake *commandtest.Fake, members staticMembers) *Manager {
	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "test.disk")
	require.NoError(t, err)
	return NewManager(l, fake, parsers.Default(), members, Config{LsblkPath: "lsblk", SmartctlPath: "smartctl"}).
		WithResolver(func(p string) string { return p })
}

func TestList(t *testing.T) {
	fake := commandtest.NewFake().
		Set(commandtest.Response{Stdout: lsblkOut}, "lsblk", "-J", "-d", "-o", lsblkColumns).
		Set(commandtest.Response{Stdout: smartPassed}, "smartctl", "-H", "/dev/sda").
		Set(commandtest.Response{Stdout: smartFailed, ExitCode: 8}, "smartctl", "-H", "/dev/sdb").
		Set(commandtest.Response{Stderr: "Smartctl open device: /dev/nvme0n1 failed\n", ExitCode: 2},
			"smartctl", "-H", "/dev/nvme0n1")

	m := newTestManager(t, fake, staticMembers{"tank": {"/dev/sdb1", "/dev/sdc"}})

	devs, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, devs, 3)

	assert.Equal(t, "QEMU HARDDISK", devs[0].Model)
	assert.Equal(t, parsers.HealthPassed, devs[0].Health)
	assert.False(t, devs[0].InUse)

	assert.Equal(t, parsers.HealthFailed, devs[1].Health)
	assert.True(t, devs[1].InUse)
	assert.Equal(t, "tank", devs[1].Pool)

	assert.Equal(t, "/dev/nvme0n1", devs[2].Path)
	assert.Equal(t, parsers.HealthUnavailable, devs[2].Health)
}

func TestHealthRejectsBadPath(t *testing.T) {
	m := newTestManager(t, commandtest.NewFake(), staticMembers{})

	for _, p := range []string{"sda", "/etc/passwd", "/dev/../etc/passwd", ""} {
		_, err := m.Health(context.Background(), p)
		assert.True(t, errors.Is(err, errors.DiskInvalidPath), p)
	}
}

func TestClaimsReportsEveryConflict(t *testing.T) {
	m := newTestManager(t, commandtest.NewFake(), staticMembers{
		"tank":   {"/dev/sdb", "/dev/sdc"},
		"backup": {"/dev/nvme0n1p1"},
	})

	claims, err := m.Claims(context.Background(), []string{"/dev/sdb", "/dev/sdd", "/dev/nvme0n1", "/dev/sdc"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"/dev/sdb":     "tank",
		"/dev/sdc":     "tank",
		"/dev/nvme0n1": "backup",
	}, claims)
}

func TestMatchMember(t *testing.T) {
	id := func(p string) string { return p }
	tests := []struct {
		device, member string
		want           bool
	}{
		{"/dev/sdb", "/dev/sdb", true},
		{"/dev/sdb", "/dev/sdb1", true},
		{"/dev/nvme0n1", "/dev/nvme0n1p3", true},
		{"/dev/sdb", "/dev/sdba", false},
		{"/dev/sd", "/dev/sdb", false},
		{"/dev/sdb1", "/dev/sdb", false},
		{"/dev/md1", "/dev/md1p1", true},
		{"/dev/md1", "/dev/md12", false},
		{"/dev/nvme0n1", "/dev/nvme0n12", false},
		{"/dev/nvme0n1", "/dev/nvme0n1p", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchMember(tt.device, tt.member, id), "%s vs %s", tt.device, tt.member)
	}

	aliases := map[string]string{"/dev/disk/by-id/ata-X": "/dev/sdb"}
	resolve := func(p string) string {
		if r, ok := aliases[p]; ok {
			return r
		}
		return p
	}
	assert.True(t, MatchMember("/dev/disk/by-id/ata-X", "/dev/sdb", resolve))
}
