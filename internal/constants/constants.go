// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package constants

// Build-time variables set via ldflags
var (
	Version   = "v0.0.1-dev" // Set via -X flag during build
	CommitSHA = "unknown"    // Set via -X flag during build
	BuildTime = "unknown"    // Set via -X flag during build
)

const (
	WarrenVersion = "v0.0.1"
	PIDFileName   = "warren.pid"

	// config
	ConfigFileName = "warren.yml"
	EnvPrefix      = "WARREN"
	EnvConfigPath  = "WARREN_CONFIG"

	// routes
	APIVersion = "v1"
	APIBase    = "/api/" + APIVersion + "/warren"
	APIZFS     = APIBase + "/zfs"
	APIShares  = APIBase + "/shares"

	// APIDisk is the base path for device inventory endpoints
	APIDisk = APIBase + "/disks"

	// APIOperations is the base path for the operation journal
	APIOperations = APIBase + "/operations"
)
