// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides a simulated tool environment for tests that
// exercise the orchestration layer without zfs or an NFS server.
package testutil

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

const (
	// TestPoolPrefix is used as prefix for test pool names
	TestPoolPrefix = "test"

	// TestPoolNameLength is the length of random suffix
	TestPoolNameLength = 6

	poolNameChars = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// GeneratePoolName creates a unique pool name for testing
func GeneratePoolName() string {
	r := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	suffix := make([]byte, TestPoolNameLength)
	for i := range suffix {
		suffix[i] = poolNameChars[r.Intn(len(poolNameChars))]
	}
	return fmt.Sprintf("%s-%s", TestPoolPrefix, string(suffix))
}

// FixedClock returns a clock that reads t until advanced.
func FixedClock(t time.Time) (now func() time.Time, advance func(time.Duration)) {
	now = func() time.Time { return t }
	advance = func(d time.Duration) { t = t.Add(d) }
	return now, advance
}
