// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"encoding/json"
	"strings"

	"github.com/stratastor/warren/pkg/errors"
)

// Health is the fixed device health enumeration.
type Health string

const (
	HealthPassed      Health = "PASSED"
	HealthFailed      Health = "FAILED"
	HealthUnknown     Health = "UNKNOWN"
	HealthUnavailable Health = "UNAVAILABLE"
)

// lsblkJSON represents the JSON output structure from lsblk
type lsblkJSON struct {
	BlockDevices []BlockDevice `json:"blockdevices"`
}

// BlockDevice represents a single block device from lsblk output
type BlockDevice struct {
	Name  string  `json:"name"`
	Path  string  `json:"path"`
	Size  string  `json:"size"`
	Model *string `json:"model"`
	Type  string  `json:"type"`
}

// IsPhysicalDisk returns true if this is a physical disk (not partition, loop, etc.)
func (bd BlockDevice) IsPhysicalDisk() bool {
	return bd.Type == "disk"
}

// LsblkParser reads `lsblk -J -d -o NAME,PATH,SIZE,MODEL,TYPE`.
type LsblkParser struct{}

func (LsblkParser) ParseBlockDevices(doc []byte) ([]BlockDevice, error) {
	var out lsblkJSON
	if err := json.Unmarshal(doc, &out); err != nil {
		return nil, errors.Wrap(err, errors.CommandOutputParse).
			WithMetadata("operation", "unmarshal_lsblk_json")
	}
	for i := range out.BlockDevices {
		bd := &out.BlockDevices[i]
		if bd.Path == "" && bd.Name != "" {
			bd.Path = "/dev/" + bd.Name
		}
		if bd.Model != nil {
			m := strings.TrimSpace(*bd.Model)
			bd.Model = &m
		}
	}
	return out.BlockDevices, nil
}

const (
	ataHealthPrefix  = "SMART overall-health self-assessment test result:"
	scsiHealthPrefix = "SMART Health Status:"
)

// SmartctlParser reads the verdict line of `smartctl -H`. ATA drives print
// PASSED/FAILED, SCSI drives print OK or a failure description.
type SmartctlParser struct{}

func (SmartctlParser) ParseHealth(doc []byte) Health {
	for _, line := range lines(doc) {
		line = strings.TrimSpace(line)
		var verdict string
		switch {
		case strings.HasPrefix(line, ataHealthPrefix):
			verdict = strings.TrimSpace(strings.TrimPrefix(line, ataHealthPrefix))
		case strings.HasPrefix(line, scsiHealthPrefix):
			verdict = strings.TrimSpace(strings.TrimPrefix(line, scsiHealthPrefix))
		default:
			continue
		}

		switch strings.ToUpper(verdict) {
		case "PASSED", "OK":
			return HealthPassed
		case "":
			return HealthUnknown
		default:
			return HealthFailed
		}
	}
	return HealthUnknown
}
