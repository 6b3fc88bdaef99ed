// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stratastor/warren/internal/constants"
)

var (
	configDir  string // Directory for configuration files
	journalDir string // Directory for the operation journal
	runDir     string // Directory for the PID file
)

func init() {
	if os.Geteuid() == 0 {
		configDir = "/etc/warren"
		journalDir = "/var/lib/warren/journal"
		runDir = "/run/warren"
		return
	}

	// Otherwise, use user config directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}

	configDir = filepath.Join(homeDir, ".warren")
	journalDir = filepath.Join(configDir, "journal")
	runDir = configDir
}

// GetConfigDir returns the appropriate configuration directory
// If running as root, it returns the system config directory
// Otherwise, it returns the user config directory
func GetConfigDir() string {
	return configDir
}

// GetJournalDir returns the default operation journal directory
func GetJournalDir() string {
	return journalDir
}

// GetPIDFilePath returns where the daemon records its PID
func GetPIDFilePath() string {
	return filepath.Join(runDir, constants.PIDFileName)
}

// EnsureDirectories creates necessary directories if they do not exist
func EnsureDirectories() error {
	for _, dir := range []string{configDir, runDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
