// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUsesDefinition(t *testing.T) {
	err := New(ZFSPoolNotFound, "tank")
	assert.Equal(t, DomainZFS, err.Domain)
	assert.Equal(t, KindPrecondition, err.Kind)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Contains(t, err.Error(), "tank")
}

func TestUnknownCodeIsInternal(t *testing.T) {
	err := New(ErrorCode(99999), "")
	assert.Equal(t, KindInternal, err.Kind)
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(err))
}

func TestToolErrorCarriesStderrAndArgv(t *testing.T) {
	err := NewToolError([]string{"zpool", "create", "my pool"}, 1, "cannot create 'my pool': invalid name\n")

	assert.Equal(t, KindTool, err.Kind)
	assert.Equal(t, "1", err.Metadata[MetaExitCode])
	assert.Equal(t, "cannot create 'my pool': invalid name\n", err.Metadata[MetaStderr])
	assert.Equal(t, "zpool create 'my pool'", err.Metadata[MetaCommand])
}

func TestWrapKeepsMetadataAndChain(t *testing.T) {
	inner := NewToolError([]string{"zfs", "snapshot", "tank/a@x"}, 1, "dataset already exists")
	outer := Wrap(inner, ZFSSnapshotCreate)

	require.NotNil(t, outer)
	assert.Equal(t, KindTool, outer.Kind)
	assert.Equal(t, "dataset already exists", outer.Metadata[MetaStderr])
	assert.True(t, Is(outer, ZFSSnapshotCreate))
	assert.True(t, Is(outer, CommandExecution))
	assert.False(t, Is(outer, ZFSPoolCreate))

	wrapped := fmt.Errorf("context: %w", outer)
	assert.True(t, Is(wrapped, CommandExecution))
	assert.True(t, IsKind(wrapped, KindTool))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(stderrors.New("boom")))
	assert.False(t, IsKind(nil, KindInternal))
	assert.Nil(t, Wrap(nil, ZFSPoolCreate))
}
