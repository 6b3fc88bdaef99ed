// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package nfs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/parsers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exports")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return NewStore(path, parsers.ExportLineParser{})
}

func readFile(t *testing.T, s *Store) string {
	t.Helper()
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func matchKey(path, client string) func(Record) bool {
	return func(r Record) bool { return r.Path == path && r.Client == client }
}

func TestAppendRemoveRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing", ""},
		{"terminated", "/tank/a 10.0.0.1(rw,sync)\n"},
		{"unterminated", "/tank/a 10.0.0.1(rw,sync)"},
		{"comments_and_blanks", "# managed\n\n/tank/a  10.0.0.1(rw)   10.0.0.2(ro)\n\n"},
		{"continuation", "/tank/a \\\n\t10.0.0.1(rw)\n"},
		{"blank_only", "\n"},
		{"crlf", "/tank/a 10.0.0.1(rw)\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, tt.content)
			before := readFile(t, s)

			rec := Record{Path: "/tank/data", Client: "192.168.1.10", Options: DefaultOptions}
			require.NoError(t, s.Append(rec))
			assert.Contains(t, readFile(t, s), "/tank/data 192.168.1.10(rw,sync,no_root_squash)")

			removed, err := s.RemoveMatching(matchKey(rec.Path, rec.Client))
			require.NoError(t, err)
			assert.True(t, removed)
			assert.Equal(t, before, readFile(t, s))
		})
	}
}

func TestRemoveMissingReportsNothingRemoved(t *testing.T) {
	content := "/tank/data2 10.0.0.1(rw)\n"
	s := newTestStore(t, content)

	removed, err := s.RemoveMatching(matchKey("/tank/data", "10.0.0.1"))
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, content, readFile(t, s))
}

func TestRemovePartialEntry(t *testing.T) {
	s := newTestStore(t, "# keep\n/tank/a 10.0.0.1(rw) \\\n  10.0.0.2(ro,sync)\n/tank/b *(ro)\n")

	removed, err := s.RemoveMatching(matchKey("/tank/a", "10.0.0.1"))
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, "# keep\n/tank/a 10.0.0.2(ro,sync)\n/tank/b *(ro)\n", readFile(t, s))

	records, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Path: "/tank/a", Client: "10.0.0.2", Options: []string{"ro", "sync"}},
		{Path: "/tank/b", Client: "*", Options: []string{"ro"}},
	}, records)
}

func TestAppendRejectsInvalidRecord(t *testing.T) {
	s := newTestStore(t, "")

	bad := []Record{
		{Path: "tank/data", Client: "10.0.0.1"},
		{Path: "/tank/../etc", Client: "10.0.0.1"},
		{Path: "/tank/data", Client: "10.0.0.1(rw)"},
		{Path: "/tank/data", Client: ""},
		{Path: "/tank/data", Client: "10.0.0.1", Options: []string{"rw,sync"}},
		{Path: "/tank/data x", Client: "10.0.0.1"},
	}
	for _, r := range bad {
		err := s.Append(r)
		assert.True(t, errors.Is(err, errors.SharesInvalidRecord), "%+v", r)
	}
	assert.Equal(t, "", readFile(t, s))
}

func TestConcurrentAppends(t *testing.T) {
	s := newTestStore(t, "")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(Record{
				Path:    fmt.Sprintf("/tank/fs%d", i),
				Client:  "10.0.0.1",
				Options: []string{"rw"},
			}))
		}(i)
	}
	wg.Wait()

	records, err := s.List()
	require.NoError(t, err)
	assert.Len(t, records, 20)
}

func TestPreservesFileMode(t *testing.T) {
	s := newTestStore(t, "/tank/a *(ro)\n")
	require.NoError(t, os.Chmod(s.Path(), 0o640))

	require.NoError(t, s.Append(Record{Path: "/tank/b", Client: "*", Options: []string{"ro"}}))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestDiff(t *testing.T) {
	file := []Record{
		{Path: "/tank/a", Client: "10.0.0.1"},
		{Path: "/tank/b", Client: "10.0.0.1"},
	}
	live := []Record{
		{Path: "/tank/a", Client: "10.0.0.1", Options: []string{"rw", "wdelay"}},
		{Path: "/tank/c", Client: "*"},
	}

	d := Diff(file, live)
	assert.False(t, d.InSync())
	assert.Equal(t, []Key{{Path: "/tank/b", Client: "10.0.0.1"}}, d.FileOnly)
	assert.Equal(t, []Key{{Path: "/tank/c", Client: "*"}}, d.LiveOnly)

	assert.True(t, Diff(file, file).InSync())
}
