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
	"strings"

	"github.com/stratastor/warren/internal/command"
	"github.com/stratastor/warren/pkg/errors"
)

// CommandExecutor builds zfs/zpool argument vectors and hands them to an
// Invoker.
type CommandExecutor struct {
	invoker  command.Invoker
	zfsBin   string
	zpoolBin string
}

// CommandFlags represents supported command flags
type CommandFlags uint8

const (
	FlagParsable  CommandFlags = 1 << iota // -p for parsable output
	FlagRecursive                          // -r for recursive operations
	FlagForce                              // -f to force operation
	FlagNoHeaders                          // -H to disable output headers
)

// CommandOptions configures command execution
type CommandOptions struct {
	Flags CommandFlags
}

// Binaries overrides the tool paths. Empty fields fall back to the defaults.
type Binaries struct {
	ZFS   string
	Zpool string
}

func NewCommandExecutor(invoker command.Invoker, bins Binaries) *CommandExecutor {
	e := &CommandExecutor{invoker: invoker, zfsBin: BinZFS, zpoolBin: BinZpool}
	if bins.ZFS != "" {
		e.zfsBin = bins.ZFS
	}
	if bins.Zpool != "" {
		e.zpoolBin = bins.Zpool
	}
	return e
}

// Execute runs cmd ("zpool create", "zfs list", ...) and returns stdout.
// Stdout is returned alongside a tool error so callers can inspect partial
// output.
func (e *CommandExecutor) Execute(
	ctx context.Context,
	opts CommandOptions,
	cmd string,
	args ...string,
) ([]byte, error) {
	argv, err := e.buildCommandArgs(cmd, opts, args...)
	if err != nil {
		return nil, err
	}

	res, err := e.invoker.Invoke(ctx, argv...)
	if res == nil {
		return nil, err
	}
	return res.Stdout, err
}

func (e *CommandExecutor) buildCommandArgs(
	cmd string,
	opts CommandOptions,
	args ...string,
) ([]string, error) {
	tool, sub, _ := strings.Cut(cmd, " ")

	var argv []string
	switch tool {
	case "zfs":
		argv = append(argv, e.zfsBin)
	case "zpool":
		argv = append(argv, e.zpoolBin)
	default:
		return nil, errors.New(errors.CommandNotFound,
			"only zfs and zpool commands are allowed").WithMetadata("command", cmd)
	}

	if sub != "" {
		argv = append(argv, strings.Fields(sub)...)
	}

	if opts.Flags&FlagParsable != 0 {
		argv = append(argv, "-p")
	}
	if opts.Flags&FlagRecursive != 0 {
		argv = append(argv, "-r")
	}
	if opts.Flags&FlagForce != 0 {
		argv = append(argv, "-f")
	}
	if opts.Flags&FlagNoHeaders != 0 {
		argv = append(argv, "-H")
	}

	return append(argv, args...), nil
}
