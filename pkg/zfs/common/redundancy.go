// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"github.com/stratastor/warren/pkg/errors"
)

// Redundancy is the vdev layout of a new pool.
type Redundancy string

const (
	Stripe Redundancy = "stripe"
	Mirror Redundancy = "mirror"
	RaidZ1 Redundancy = "raidz1"
	RaidZ2 Redundancy = "raidz2"
	RaidZ3 Redundancy = "raidz3"
)

type redundancySpec struct {
	minDevices int
	tokens     []string
}

var redundancySpecs = map[Redundancy]redundancySpec{
	Stripe: {minDevices: 2},
	Mirror: {minDevices: 2, tokens: []string{"mirror"}},
	RaidZ1: {minDevices: 3, tokens: []string{"raidz"}},
	RaidZ2: {minDevices: 4, tokens: []string{"raidz2"}},
	RaidZ3: {minDevices: 4, tokens: []string{"raidz3"}},
}

// Redundancies lists every supported mode.
func Redundancies() []Redundancy {
	return []Redundancy{Stripe, Mirror, RaidZ1, RaidZ2, RaidZ3}
}

// ParseRedundancy accepts a mode name; empty means stripe.
func ParseRedundancy(s string) (Redundancy, error) {
	if s == "" {
		return Stripe, nil
	}
	r := Redundancy(s)
	if _, ok := redundancySpecs[r]; !ok {
		return "", errors.New(errors.ZFSInvalidRedundancy, s)
	}
	return r, nil
}

// MinDevices is the smallest member count the mode accepts.
func (r Redundancy) MinDevices() int {
	return redundancySpecs[r].minDevices
}

// Tokens is the vdev type clause placed before the member devices.
func (r Redundancy) Tokens() []string {
	return append([]string(nil), redundancySpecs[r].tokens...)
}
