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

	"github.com/stratastor/warren/internal/command"
	"github.com/stratastor/warren/pkg/errors"
)

// CreateOptions are the properties accepted when creating a filesystem, in
// the order they are applied.
var CreateOptions = []string{"quota", "compression", "readonly", "mountpoint"}

// InspectProperties is the property list reported for a filesystem.
var InspectProperties = []string{
	"type",
	"creation",
	"used",
	"available",
	"referenced",
	"mounted",
	"mountpoint",
	"compression",
	"quota",
	"readonly",
	"sharenfs",
	"checksum",
	"atime",
	"recordsize",
	"refreservation",
}

// Property names are lower-case; user properties carry a ':'.
var propertyNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_:.@-]*$`)

const maxPropertyValueLen = 1024

// IsCreateOption reports whether key is one of CreateOptions.
func IsCreateOption(key string) bool {
	for _, k := range CreateOptions {
		if k == key {
			return true
		}
	}
	return false
}

// ValidateProperty checks the shape of a key=value pair. Recognized and
// unrecognized keys alike pass through to zfs, which owns the semantics.
func ValidateProperty(key, value string) error {
	if !propertyNameRegex.MatchString(key) {
		return errors.New(errors.ZFSInvalidProperty, "malformed property name").
			WithMetadata("property", key)
	}
	if value == "" || len(value) > maxPropertyValueLen {
		return errors.New(errors.ZFSInvalidProperty, "property value is empty or too long").
			WithMetadata("property", key)
	}
	// zfs receives key=value as one argument.
	if err := command.CheckArgument(key + "=" + value); err != nil {
		we := errors.Wrap(err, errors.ZFSInvalidProperty).WithMetadata("property", key)
		delete(we.Metadata, "argument")
		return we
	}
	return nil
}
