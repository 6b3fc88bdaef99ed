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

package errors

import "net/http"

const (
	DomainConfig    Domain = "CONFIG"
	DomainServer    Domain = "SERVER"
	DomainZFS       Domain = "ZFS"
	DomainCommand   Domain = "CMD"
	DomainHealth    Domain = "HEALTH"
	DomainLifecycle Domain = "LIFECYCLE"
	DomainShares    Domain = "SHARES"
	DomainDisk      Domain = "DISK"
	DomainJournal   Domain = "JOURNAL"
)

// ErrorCode represents unique error identifiers
type ErrorCode int

// Domain represents the subsystem where the error originated
type Domain string

// Kind classifies an error by who is responsible for it. Callers switch on
// Kind to pick a response; codes are for humans and dashboards.
type Kind string

const (
	// KindValidation: bad input shape; never reached an external tool.
	KindValidation Kind = "validation"
	// KindPrecondition: live state rejects the request (not found, exists, in use).
	KindPrecondition Kind = "precondition"
	// KindTool: an invoked command exited nonzero or could not be run.
	KindTool Kind = "tool"
	// KindDivergence: the exports file changed but the daemon did not reload.
	KindDivergence Kind = "divergence"
	// KindInternal: the orchestrator itself broke.
	KindInternal Kind = "internal"
)

type WarrenError struct {
	Code       ErrorCode `json:"code"`
	Domain     Domain    `json:"domain"`
	Kind       Kind      `json:"kind"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	HTTPStatus int       `json:"-"`

	// Metadata carries structured context such as the argv that was run, the
	// tool's stderr and exit code, or the list of conflicting devices.
	Metadata map[string]string `json:"metadata,omitempty"`

	cause error
}

// Error code ranges:
// 1000-1099: Configuration errors
// 1100-1199: Server errors
// 1300-1399: Command execution
// 1400-1499: Health check
// 1500-1599: Lifecycle management
// 1700-1799: Shares
// 1800-1899: Disks
// 1900-1999: Journal
// 2000-2999: ZFS operations
const (
	// Configuration Errors (1000-1099)
	ConfigNotFound         = 1000 + iota // Config file not found
	ConfigInvalid                        // Invalid config format
	ConfigLoadFailed                     // Failed to load config
	ConfigWriteFailed                    // Failed to write config
	ConfigValidationFailed               // Config validation failed
)

const (
	// Server Errors (1100-1199)
	ServerStart             = 1100 + iota // Failed to start server
	ServerShutdown                        // Error during shutdown
	ServerRequestValidation               // Request validation failed
	ServerForbidden                       // Client not in allowed networks
	ServerInternalError                   // Unexpected handler failure
)

const (
	// Command Execution (1300-1399)
	CommandNotFound     = 1300 + iota // Empty argv or unknown binary
	CommandInvalidInput               // Argument rejected before execution
	CommandExecution                  // Nonzero exit status
	CommandStart                      // Process could not be started
	CommandTimeout                    // Context cancelled or deadline hit
	CommandOutputParse                // Output could not be decoded
)

const (
	// Health Check (1400-1499)
	HealthCheckFailed = 1400 + iota
)

const (
	// Lifecycle (1500-1599)
	LifecycleInternal = 1500 + iota // Unclassified failure inside the orchestrator
	LifecyclePanic                  // Recovered panic
	LifecycleStepFailed             // Multi-step operation stopped partway
)

const (
	// Shares (1700-1799)
	SharesNotFound        = 1700 + iota // Export record not found
	SharesAlreadyExists                 // Export record already present for (path, client)
	SharesInvalidRecord                 // Path, client or options malformed
	SharesStoreRead                     // Exports file could not be read
	SharesStoreWrite                    // Exports file could not be rewritten
	SharesStoreLock                     // Exports lock could not be taken
	SharesReloadDiverged                // File updated, daemon reload failed
	SharesServiceFailed                 // NFS service control failed
	SharesLiveListFailed                // exportfs -v failed
	SharesAuditStart                    // Divergence auditor could not start
)

const (
	// Disks (1800-1899)
	DiskNotFound          = 1800 + iota // Device path not present
	DiskInUse                           // Device already belongs to a live pool
	DiskEnumerationFailed               // lsblk failed
	DiskInvalidPath                     // Device path malformed
)

const (
	// Journal (1900-1999)
	JournalOpenFailed = 1900 + iota
	JournalWriteFailed
	JournalReadFailed
)

const (
	// ZFS Operations (2000-2999)
	ZFSInvalidName             = 2000 + iota // Name violates the allowed character class
	ZFSInvalidRedundancy                     // Unknown redundancy mode
	ZFSInvalidProperty                       // Property name or value malformed
	ZFSPoolNotFound                          // Pool not found
	ZFSPoolExists                            // Pool name already taken
	ZFSPoolInsufficientDevices               // Fewer devices than the mode requires
	ZFSPoolDeviceInUse                       // Devices belong to another live pool
	ZFSPoolInvalidDevices                    // Device list empty or repeats a device
	ZFSPoolCreate                            // zpool create failed
	ZFSPoolDestroy                           // zpool destroy failed
	ZFSPoolList                              // zpool list failed
	ZFSPoolStatus                            // zpool status failed
	ZFSPoolProperties                        // zpool get failed
	ZFSDatasetNotFound                       // Filesystem not found
	ZFSDatasetExists                         // Filesystem already exists
	ZFSDatasetCreate                         // zfs create failed
	ZFSDatasetDestroy                        // zfs destroy failed
	ZFSDatasetList                           // zfs list failed
	ZFSDatasetProperties                     // zfs get failed
	ZFSDatasetSetProperty                    // zfs set failed
	ZFSDatasetPermissions                    // chmod on the mountpoint failed
	ZFSSnapshotNotFound                      // Snapshot not found
	ZFSSnapshotInvalidName                   // Snapshot name malformed
	ZFSSnapshotCreate                        // zfs snapshot failed
	ZFSSnapshotList                          // zfs list -t snapshot failed
	ZFSSnapshotRollback                      // zfs rollback failed
	ZFSSnapshotDestroy                       // zfs destroy of a snapshot failed
)

type definition struct {
	message    string
	domain     Domain
	kind       Kind
	httpStatus int
}

var errorDefinitions = map[ErrorCode]definition{
	ConfigNotFound: {"Configuration file not found", DomainConfig, KindInternal, http.StatusInternalServerError},
	ConfigInvalid:  {"Invalid configuration format", DomainConfig, KindInternal, http.StatusInternalServerError},
	ConfigLoadFailed: {
		"Failed to load configuration",
		DomainConfig,
		KindInternal,
		http.StatusInternalServerError,
	},
	ConfigWriteFailed: {
		"Failed to write configuration",
		DomainConfig,
		KindInternal,
		http.StatusInternalServerError,
	},
	ConfigValidationFailed: {
		"Configuration validation failed",
		DomainConfig,
		KindValidation,
		http.StatusInternalServerError,
	},

	ServerStart:    {"Failed to start server", DomainServer, KindInternal, http.StatusInternalServerError},
	ServerShutdown: {"Error during server shutdown", DomainServer, KindInternal, http.StatusInternalServerError},
	ServerRequestValidation: {
		"Request validation failed",
		DomainServer,
		KindValidation,
		http.StatusBadRequest,
	},
	ServerForbidden: {"Client address not allowed", DomainServer, KindValidation, http.StatusForbidden},
	ServerInternalError: {
		"Internal server error",
		DomainServer,
		KindInternal,
		http.StatusInternalServerError,
	},

	CommandNotFound:     {"Command not found", DomainCommand, KindValidation, http.StatusBadRequest},
	CommandInvalidInput: {"Invalid command argument", DomainCommand, KindValidation, http.StatusBadRequest},
	CommandExecution:    {"Command exited with an error", DomainCommand, KindTool, http.StatusInternalServerError},
	CommandStart:        {"Command could not be started", DomainCommand, KindTool, http.StatusInternalServerError},
	CommandTimeout:      {"Command timed out or was cancelled", DomainCommand, KindTool, http.StatusGatewayTimeout},
	CommandOutputParse: {
		"Failed to parse command output",
		DomainCommand,
		KindInternal,
		http.StatusInternalServerError,
	},

	HealthCheckFailed: {"Health check failed", DomainHealth, KindInternal, http.StatusServiceUnavailable},

	LifecycleInternal: {
		"Internal orchestration failure",
		DomainLifecycle,
		KindInternal,
		http.StatusInternalServerError,
	},
	LifecyclePanic: {
		"Orchestration panicked",
		DomainLifecycle,
		KindInternal,
		http.StatusInternalServerError,
	},
	LifecycleStepFailed: {
		"Operation stopped at a failed step",
		DomainLifecycle,
		KindTool,
		http.StatusInternalServerError,
	},

	SharesNotFound:      {"Export record not found", DomainShares, KindPrecondition, http.StatusNotFound},
	SharesAlreadyExists: {"Export record already exists", DomainShares, KindPrecondition, http.StatusConflict},
	SharesInvalidRecord: {"Invalid export record", DomainShares, KindValidation, http.StatusBadRequest},
	SharesStoreRead: {
		"Failed to read exports file",
		DomainShares,
		KindInternal,
		http.StatusInternalServerError,
	},
	SharesStoreWrite: {
		"Failed to write exports file",
		DomainShares,
		KindInternal,
		http.StatusInternalServerError,
	},
	SharesStoreLock: {
		"Failed to lock exports file",
		DomainShares,
		KindInternal,
		http.StatusInternalServerError,
	},
	SharesReloadDiverged: {
		"Exports file updated but NFS daemon reload failed",
		DomainShares,
		KindDivergence,
		http.StatusBadGateway,
	},
	SharesServiceFailed: {
		"NFS service operation failed",
		DomainShares,
		KindTool,
		http.StatusInternalServerError,
	},
	SharesAuditStart: {
		"Failed to start exports divergence auditor",
		DomainShares,
		KindInternal,
		http.StatusInternalServerError,
	},
	SharesLiveListFailed: {
		"Failed to list live exports",
		DomainShares,
		KindTool,
		http.StatusInternalServerError,
	},

	DiskNotFound:    {"Device not found", DomainDisk, KindPrecondition, http.StatusNotFound},
	DiskInUse:       {"Device already in use", DomainDisk, KindPrecondition, http.StatusConflict},
	DiskInvalidPath: {"Invalid device path", DomainDisk, KindValidation, http.StatusBadRequest},
	DiskEnumerationFailed: {
		"Failed to enumerate block devices",
		DomainDisk,
		KindTool,
		http.StatusInternalServerError,
	},

	JournalOpenFailed: {
		"Failed to open operation journal",
		DomainJournal,
		KindInternal,
		http.StatusInternalServerError,
	},
	JournalWriteFailed: {
		"Failed to record operation",
		DomainJournal,
		KindInternal,
		http.StatusInternalServerError,
	},
	JournalReadFailed: {
		"Failed to read operation journal",
		DomainJournal,
		KindInternal,
		http.StatusInternalServerError,
	},

	ZFSInvalidName:       {"Invalid ZFS name", DomainZFS, KindValidation, http.StatusBadRequest},
	ZFSInvalidRedundancy: {"Invalid redundancy mode", DomainZFS, KindValidation, http.StatusBadRequest},
	ZFSInvalidProperty:   {"Invalid property", DomainZFS, KindValidation, http.StatusBadRequest},
	ZFSPoolNotFound:      {"Pool not found", DomainZFS, KindPrecondition, http.StatusNotFound},
	ZFSPoolExists:        {"Pool already exists", DomainZFS, KindPrecondition, http.StatusConflict},
	ZFSPoolInsufficientDevices: {
		"Not enough devices for redundancy mode",
		DomainZFS,
		KindPrecondition,
		http.StatusUnprocessableEntity,
	},
	ZFSPoolDeviceInUse:    {"Devices already in use", DomainZFS, KindPrecondition, http.StatusConflict},
	ZFSPoolInvalidDevices: {"Invalid device list", DomainZFS, KindValidation, http.StatusBadRequest},
	ZFSPoolCreate:         {"Failed to create pool", DomainZFS, KindTool, http.StatusInternalServerError},
	ZFSPoolDestroy:        {"Failed to destroy pool", DomainZFS, KindTool, http.StatusInternalServerError},
	ZFSPoolList:           {"Failed to list pools", DomainZFS, KindTool, http.StatusInternalServerError},
	ZFSPoolStatus:         {"Failed to get pool status", DomainZFS, KindTool, http.StatusInternalServerError},
	ZFSPoolProperties:     {"Failed to get pool properties", DomainZFS, KindTool, http.StatusInternalServerError},
	ZFSDatasetNotFound:    {"Filesystem not found", DomainZFS, KindPrecondition, http.StatusNotFound},
	ZFSDatasetExists:      {"Filesystem already exists", DomainZFS, KindPrecondition, http.StatusConflict},
	ZFSDatasetCreate:      {"Failed to create filesystem", DomainZFS, KindTool, http.StatusInternalServerError},
	ZFSDatasetDestroy:     {"Failed to destroy filesystem", DomainZFS, KindTool, http.StatusInternalServerError},
	ZFSDatasetList:        {"Failed to list filesystems", DomainZFS, KindTool, http.StatusInternalServerError},
	ZFSDatasetProperties:  {"Failed to get filesystem properties", DomainZFS, KindTool, http.StatusInternalServerError},
	ZFSDatasetSetProperty: {
		"Failed to set filesystem property",
		DomainZFS,
		KindTool,
		http.StatusInternalServerError,
	},
	ZFSDatasetPermissions: {
		"Failed to set filesystem permissions",
		DomainZFS,
		KindTool,
		http.StatusInternalServerError,
	},
	ZFSSnapshotNotFound:    {"Snapshot not found", DomainZFS, KindPrecondition, http.StatusNotFound},
	ZFSSnapshotInvalidName: {"Invalid snapshot name", DomainZFS, KindValidation, http.StatusBadRequest},
	ZFSSnapshotCreate:      {"Failed to create snapshot", DomainZFS, KindTool, http.StatusInternalServerError},
	ZFSSnapshotList:        {"Failed to list snapshots", DomainZFS, KindTool, http.StatusInternalServerError},
	ZFSSnapshotRollback:    {"Failed to roll back snapshot", DomainZFS, KindTool, http.StatusInternalServerError},
	ZFSSnapshotDestroy:     {"Failed to destroy snapshot", DomainZFS, KindTool, http.StatusInternalServerError},
}
