// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"strings"
	"testing"

	"github.com/stratastor/warren/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePoolName(t *testing.T) {
	valid := []string{"tank", "Tank_01", "a.b-c", "0pool"}
	for _, name := range valid {
		assert.NoError(t, ValidatePoolName(name), name)
	}

	invalid := []string{"", "tank/data", "my pool", "tank@snap", "..", strings.Repeat("a", MaxNameLen)}
	for _, name := range invalid {
		err := ValidatePoolName(name)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, errors.ZFSInvalidName))
		assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	}
}

func TestSplitFilesystem(t *testing.T) {
	pool, name, err := SplitFilesystem("tank/data")
	require.NoError(t, err)
	assert.Equal(t, "tank", pool)
	assert.Equal(t, "data", name)

	for _, bad := range []string{"tank", "tank/", "/data", "tank/a/b", "tank/da ta", "ta$nk/data"} {
		_, _, err := SplitFilesystem(bad)
		assert.True(t, errors.Is(err, errors.ZFSInvalidName), bad)
	}
}

func TestParseSnapshotRef(t *testing.T) {
	ref, err := ParseSnapshotRef("tank/data@260102-101010")
	require.NoError(t, err)
	assert.Equal(t, SnapshotRef{Pool: "tank", Filesystem: "tank/data", Label: "260102-101010"}, ref)
	assert.Equal(t, "tank/data@260102-101010", ref.String())

	for _, bad := range []string{"tank/data", "tank@x", "tank/data@", "tank/data@a b", "tank/a/b@x"} {
		_, err := ParseSnapshotRef(bad)
		assert.True(t, errors.Is(err, errors.ZFSSnapshotInvalidName), bad)
	}
}

func TestRedundancy(t *testing.T) {
	tests := []struct {
		mode   Redundancy
		min    int
		tokens []string
	}{
		{Stripe, 2, nil},
		{Mirror, 2, []string{"mirror"}},
		{RaidZ1, 3, []string{"raidz"}},
		{RaidZ2, 4, []string{"raidz2"}},
		{RaidZ3, 4, []string{"raidz3"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r, err := ParseRedundancy(string(tt.mode))
			require.NoError(t, err)
			assert.Equal(t, tt.min, r.MinDevices())
			assert.Equal(t, len(tt.tokens), len(r.Tokens()))
			if len(tt.tokens) > 0 {
				assert.Equal(t, tt.tokens, r.Tokens())
			}
		})
	}

	r, err := ParseRedundancy("")
	require.NoError(t, err)
	assert.Equal(t, Stripe, r)

	_, err = ParseRedundancy("raid5")
	assert.True(t, errors.Is(err, errors.ZFSInvalidRedundancy))
}

func TestValidateProperty(t *testing.T) {
	assert.NoError(t, ValidateProperty("quota", "2G"))
	assert.NoError(t, ValidateProperty("com.example:owner", "ops"))
	assert.Error(t, ValidateProperty("Quota", "2G"))
	assert.Error(t, ValidateProperty("quota=1", "2G"))
	assert.Error(t, ValidateProperty("quota", ""))
	assert.Error(t, ValidateProperty("quota", "2G\n"))
	assert.NoError(t, ValidateProperty("mountpoint", "/srv/data"))

	// Values the command runner would refuse never reach zfs.
	for _, v := range []string{"a&b", "x|y", "$(id)", "a;b", "{x}", "a\\b", "/srv/../etc"} {
		err := ValidateProperty("org.example:note", v)
		assert.True(t, errors.Is(err, errors.ZFSInvalidProperty), "value %q", v)
	}
	assert.True(t, IsCreateOption("mountpoint"))
	assert.False(t, IsCreateOption("atime"))
}
