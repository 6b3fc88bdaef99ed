/*
 * Copyright 2024-2025 Raamsri Kumar <raam@tinkershack.in>
 * Copyright 2024-2025 The StrataSTOR Authors and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package command

import (
	"context"
	"testing"

	"github.com/stratastor/warren/internal/command/commandtest"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommandArgs(t *testing.T) {
	e := NewCommandExecutor(commandtest.NewFake(), Binaries{ZFS: "zfs"})

	tests := []struct {
		name string
		cmd  string
		opts CommandOptions
		args []string
		want []string
	}{
		{
			name: "pool_create",
			cmd:  "zpool create",
			args: []string{"tank", "mirror", "/dev/sdb", "/dev/sdc"},
			want: []string{BinZpool, "create", "tank", "mirror", "/dev/sdb", "/dev/sdc"},
		},
		{
			name: "list_no_headers",
			cmd:  "zfs list",
			opts: CommandOptions{Flags: FlagNoHeaders},
			args: []string{"-o", "name"},
			want: []string{"zfs", "list", "-H", "-o", "name"},
		},
		{
			name: "rollback_recursive",
			cmd:  "zfs rollback",
			opts: CommandOptions{Flags: FlagRecursive},
			args: []string{"tank/data@x"},
			want: []string{"zfs", "rollback", "-r", "tank/data@x"},
		},
		{
			name: "get_all",
			cmd:  "zpool get all",
			args: []string{"tank"},
			want: []string{BinZpool, "get", "all", "tank"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.buildCommandArgs(tt.cmd, tt.opts, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := e.buildCommandArgs("rm -rf", CommandOptions{}, "/")
	assert.True(t, errors.Is(err, errors.CommandNotFound))
}

func TestExecuteReturnsStdoutAndToolError(t *testing.T) {
	fake := commandtest.NewFake().
		Set(commandtest.Response{Stdout: "tank\n"}, "zpool", "list", "-H", "-o", "name").
		Set(commandtest.Response{Stderr: "cannot open 'nope': no such pool\n", ExitCode: 1},
			"zpool", "destroy", "nope")
	e := NewCommandExecutor(fake, Binaries{ZFS: "zfs", Zpool: "zpool"})

	out, err := e.Execute(context.Background(), CommandOptions{Flags: FlagNoHeaders}, "zpool list", "-o", "name")
	require.NoError(t, err)
	assert.Equal(t, "tank\n", string(out))

	_, err = e.Execute(context.Background(), CommandOptions{}, "zpool destroy", "nope")
	require.Error(t, err)
	assert.Equal(t, errors.KindTool, errors.KindOf(err))
	we, _ := errors.As(err)
	assert.Equal(t, "cannot open 'nope': no such pool\n", we.Metadata[errors.MetaStderr])
}
