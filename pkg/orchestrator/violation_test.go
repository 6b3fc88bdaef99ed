// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	stderrors "errors"
	"testing"

	"github.com/stratastor/warren/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViolationCodes(t *testing.T) {
	tests := []struct {
		v    Violation
		code errors.ErrorCode
		kind errors.Kind
	}{
		{Violation{Kind: InvalidName, Resource: KindPool}, errors.ZFSInvalidName, errors.KindValidation},
		{Violation{Kind: InvalidArgument, Resource: KindPool, Field: "redundancy"}, errors.ZFSInvalidRedundancy, errors.KindValidation},
		{Violation{Kind: InvalidArgument, Resource: KindPool, Field: "devices"}, errors.ZFSPoolInvalidDevices, errors.KindValidation},
		{Violation{Kind: NotFound, Resource: KindSnapshot}, errors.ZFSSnapshotNotFound, errors.KindPrecondition},
		{Violation{Kind: Duplicate, Resource: KindExport}, errors.SharesAlreadyExists, errors.KindPrecondition},
		{Violation{Kind: InUse, Resource: KindPool}, errors.ZFSPoolDeviceInUse, errors.KindPrecondition},
		{Violation{Kind: InsufficientDevices, Resource: KindPool}, errors.ZFSPoolInsufficientDevices, errors.KindPrecondition},
		{Violation{Kind: InsufficientDevices, Resource: KindExport}, errors.LifecycleInternal, errors.KindInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.v.Kind)+"/"+string(tt.v.Resource), func(t *testing.T) {
			we := tt.v.Err()
			assert.Equal(t, tt.code, we.Code)
			assert.Equal(t, tt.kind, we.Kind)
		})
	}
}

func TestViolationErr(t *testing.T) {
	v := &Violation{
		Kind:      InUse,
		Resource:  KindPool,
		Field:     "devices",
		Detail:    "devices belong to a live pool",
		Conflicts: []string{"/dev/sdc", "/dev/sdb"},
	}
	we := v.Err()

	assert.Equal(t, "devices belong to a live pool", we.Details)
	assert.Equal(t, "/dev/sdb,/dev/sdc", we.Metadata[errors.MetaConflicts])
	assert.Equal(t, "InUse", we.Metadata["violation"])
	assert.Equal(t, "devices", we.Metadata["field"])
	assert.Equal(t, []string{"/dev/sdc", "/dev/sdb"}, v.Conflicts, "caller's slice is left alone")

	var got *Violation
	require.True(t, stderrors.As(we, &got))
	assert.Same(t, v, got)

	assert.Equal(t, errors.ErrorCode(errors.ZFSPoolDeviceInUse), classify(v).(*errors.WarrenError).Code)
}
