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

package common

import (
	"regexp"
	"strings"

	"github.com/stratastor/warren/pkg/errors"
)

// MaxNameLen mirrors ZFS_MAX_DATASET_NAME_LEN.
const MaxNameLen = 256

var (
	// Pool names and filesystem components share one character class.
	componentRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

	// Snapshot references as accepted by rollback and destroy.
	snapshotRefRegex = regexp.MustCompile(`^([\w\-./]+)@([\w\-]+)$`)
)

// ValidatePoolName checks a bare pool name.
func ValidatePoolName(name string) error {
	if err := validateComponent(name); err != nil {
		return errors.New(errors.ZFSInvalidName, err.Error()).
			WithMetadata("name", name)
	}
	return nil
}

// SplitFilesystem splits "pool/name" and validates both components. Only a
// single level of nesting is accepted.
func SplitFilesystem(full string) (pool, name string, err error) {
	pool, name, ok := strings.Cut(full, "/")
	if !ok || strings.Contains(name, "/") {
		return "", "", errors.New(errors.ZFSInvalidName, "filesystem must be pool/name").
			WithMetadata("name", full)
	}
	if err := validateComponent(pool); err != nil {
		return "", "", errors.New(errors.ZFSInvalidName, "pool: "+err.Error()).
			WithMetadata("name", full)
	}
	if err := validateComponent(name); err != nil {
		return "", "", errors.New(errors.ZFSInvalidName, "name: "+err.Error()).
			WithMetadata("name", full)
	}
	return pool, name, nil
}

// SnapshotRef is a parsed pool/filesystem@label.
type SnapshotRef struct {
	Pool       string `json:"pool"`
	Filesystem string `json:"filesystem"` // pool/name
	Label      string `json:"label"`
}

func (s SnapshotRef) String() string {
	return s.Filesystem + "@" + s.Label
}

// ParseSnapshotRef validates and splits a full snapshot name.
func ParseSnapshotRef(full string) (SnapshotRef, error) {
	m := snapshotRefRegex.FindStringSubmatch(full)
	if m == nil {
		return SnapshotRef{}, errors.New(errors.ZFSSnapshotInvalidName,
			"expected pool/filesystem@label").WithMetadata("name", full)
	}
	pool, _, err := SplitFilesystem(m[1])
	if err != nil {
		return SnapshotRef{}, errors.New(errors.ZFSSnapshotInvalidName, err.Error()).
			WithMetadata("name", full)
	}
	return SnapshotRef{Pool: pool, Filesystem: m[1], Label: m[2]}, nil
}

type nameError string

func (e nameError) Error() string { return string(e) }

func validateComponent(s string) error {
	switch {
	case s == "":
		return nameError("name is empty")
	case len(s) >= MaxNameLen:
		return nameError("name is too long")
	case !componentRegex.MatchString(s):
		return nameError("name may only contain letters, digits, '_', '.' and '-'")
	case s == "." || s == "..":
		return nameError("name may not be '.' or '..'")
	}
	return nil
}
