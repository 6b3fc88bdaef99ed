// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/stratastor/warren/pkg/errors"
)

// ViolationKind names the precondition or input rule that failed.
type ViolationKind string

const (
	InvalidName         ViolationKind = "InvalidName"
	InvalidArgument     ViolationKind = "InvalidArgument"
	NotFound            ViolationKind = "NotFound"
	AlreadyExists       ViolationKind = "AlreadyExists"
	InUse               ViolationKind = "InUse"
	Duplicate           ViolationKind = "Duplicate"
	InsufficientDevices ViolationKind = "InsufficientDevices"
)

// Violation is a typed validator rejection. Conflicts lists every offending
// item, never a prefix of them.
type Violation struct {
	Kind      ViolationKind
	Resource  ResourceKind
	Field     string
	Detail    string
	Conflicts []string
	Required  int
	Siblings  []string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s %s: %s", v.Resource, v.Kind, v.Detail)
}

type violationKey struct {
	kind     ViolationKind
	resource ResourceKind
}

var violationCodes = map[violationKey]errors.ErrorCode{
	{InvalidName, KindPool}:       errors.ZFSInvalidName,
	{InvalidName, KindFilesystem}: errors.ZFSInvalidName,
	{InvalidName, KindSnapshot}:   errors.ZFSSnapshotInvalidName,
	{InvalidName, KindExport}:     errors.SharesInvalidRecord,
	{InvalidName, KindDevice}:     errors.DiskInvalidPath,

	{InvalidArgument, KindPool}:       errors.ZFSPoolInvalidDevices,
	{InvalidArgument, KindFilesystem}: errors.ZFSInvalidProperty,
	{InvalidArgument, KindSnapshot}:   errors.ZFSSnapshotInvalidName,
	{InvalidArgument, KindExport}:     errors.SharesInvalidRecord,
	{InvalidArgument, KindDevice}:     errors.DiskInvalidPath,

	{NotFound, KindPool}:       errors.ZFSPoolNotFound,
	{NotFound, KindFilesystem}: errors.ZFSDatasetNotFound,
	{NotFound, KindSnapshot}:   errors.ZFSSnapshotNotFound,
	{NotFound, KindExport}:     errors.SharesNotFound,
	{NotFound, KindDevice}:     errors.DiskNotFound,

	{AlreadyExists, KindPool}:       errors.ZFSPoolExists,
	{AlreadyExists, KindFilesystem}: errors.ZFSDatasetExists,
	{AlreadyExists, KindExport}:     errors.SharesAlreadyExists,

	{Duplicate, KindPool}:   errors.ZFSPoolInvalidDevices,
	{Duplicate, KindExport}: errors.SharesAlreadyExists,

	{InUse, KindPool}:   errors.ZFSPoolDeviceInUse,
	{InUse, KindDevice}: errors.DiskInUse,

	{InsufficientDevices, KindPool}: errors.ZFSPoolInsufficientDevices,
}

// Code maps the violation to its error code. The mapping depends only on
// kind, resource and field.
func (v *Violation) Code() errors.ErrorCode {
	if v.Kind == InvalidArgument && v.Resource == KindPool && v.Field == "redundancy" {
		return errors.ZFSInvalidRedundancy
	}
	if code, ok := violationCodes[violationKey{v.Kind, v.Resource}]; ok {
		return code
	}
	return errors.LifecycleInternal
}

// Err renders the violation as a WarrenError that still unwraps to v.
func (v *Violation) Err() *errors.WarrenError {
	we := errors.Wrap(v, v.Code())
	we.Details = v.Detail
	we.WithMetadata("violation", string(v.Kind)).
		WithMetadata("resource", string(v.Resource))
	if v.Field != "" {
		we.WithMetadata("field", v.Field)
	}
	if len(v.Conflicts) > 0 {
		conflicts := append([]string(nil), v.Conflicts...)
		sort.Strings(conflicts)
		we.WithMetadata(errors.MetaConflicts, strings.Join(conflicts, ","))
	}
	if v.Required > 0 {
		we.WithMetadata(errors.MetaRequired, strconv.Itoa(v.Required))
	}
	if v.Siblings != nil {
		we.WithMetadata(errors.MetaSiblings, strings.Join(v.Siblings, ","))
	}
	return we
}
