// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package parsers turns text printed by zpool, zfs, exportfs, lsblk and
// smartctl into typed records.
//
// Each document shape sits behind its own interface so that a change in a
// tool's output format is absorbed by a new implementation here and nothing
// upstream moves. All parsers are pure: malformed rows are skipped, never
// fatal.
package parsers

import "strings"

// Row is one record of a tabular document keyed by column name.
type Row map[string]string

// TableParser decodes a header-led, whitespace-aligned table.
type TableParser interface {
	ParseTable(doc []byte) []Row
}

// ListParser decodes headerless tab-separated output (zfs/zpool -H) against
// a caller-supplied column list.
type ListParser interface {
	ParseList(doc []byte, columns ...string) []Row
}

// PropertyParser decodes `zpool get` / `zfs get` output.
type PropertyParser interface {
	ParseProperties(doc []byte) []Property
}

// StatusParser decodes one `zpool status` document.
type StatusParser interface {
	ParseStatus(doc []byte) PoolStatus
}

// ExportsParser decodes the exports grammar, both the on-disk file and
// `exportfs -v` output.
type ExportsParser interface {
	ParseExports(doc []byte) []ExportLine
	ParseExportLine(text string) (ExportLine, bool)
}

// BlockDeviceParser decodes lsblk output.
type BlockDeviceParser interface {
	ParseBlockDevices(doc []byte) ([]BlockDevice, error)
}

// HealthParser reduces smartctl -H output to a health token.
type HealthParser interface {
	ParseHealth(doc []byte) Health
}

// Set bundles one implementation per document shape.
type Set struct {
	Table        TableParser
	List         ListParser
	Properties   PropertyParser
	Status       StatusParser
	Exports      ExportsParser
	BlockDevices BlockDeviceParser
	Health       HealthParser
}

// Default returns the parsers for the OpenZFS 2.x / nfs-utils / util-linux
// output formats.
func Default() Set {
	return Set{
		Table:        TabularParser{},
		List:         TabListParser{},
		Properties:   KVPropertyParser{},
		Status:       ZpoolStatusParser{},
		Exports:      ExportLineParser{},
		BlockDevices: LsblkParser{},
		Health:       SmartctlParser{},
	}
}

// lines splits doc into lines without the trailing carriage returns some
// tools emit.
func lines(doc []byte) []string {
	raw := strings.Split(string(doc), "\n")
	for i, l := range raw {
		raw[i] = strings.TrimRight(l, "\r")
	}
	return raw
}

// fieldsN splits s on runs of whitespace into at most n fields; the last
// field keeps any remaining text verbatim.
func fieldsN(s string, n int) []string {
	var out []string
	s = strings.TrimLeft(s, " \t")
	for len(s) > 0 && len(out) < n-1 {
		i := strings.IndexAny(s, " \t")
		if i < 0 {
			break
		}
		out = append(out, s[:i])
		s = strings.TrimLeft(s[i:], " \t")
	}
	if s = strings.TrimRight(s, " \t"); s != "" {
		out = append(out, s)
	}
	return out
}
