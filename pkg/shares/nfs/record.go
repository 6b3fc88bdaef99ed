// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package nfs owns the exports file and the NFS server it feeds.
package nfs

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/parsers"
)

// DefaultOptions apply when a share request carries none.
var DefaultOptions = []string{"rw", "sync", "no_root_squash"}

var (
	clientRegex = regexp.MustCompile(`^[A-Za-z0-9.*?:/_\-\[\]@]+$`)
	optionRegex = regexp.MustCompile(`^[a-z_]+(=[A-Za-z0-9_:./@-]+)?$`)
)

// Record is a single export authorization: one path, one client selector.
type Record struct {
	Path    string   `json:"path"`
	Client  string   `json:"client"`
	Options []string `json:"options"`
}

// Key identifies a record; at most one record exists per key.
type Key struct {
	Path   string `json:"path"`
	Client string `json:"client"`
}

func (r Record) Key() Key {
	return Key{Path: r.Path, Client: r.Client}
}

// Line renders the record as one exports line, without terminator.
func (r Record) Line() string {
	return parsers.ExportLine{
		Path:    r.Path,
		Clients: []parsers.ClientSpec{{Client: r.Client, Options: r.Options}},
	}.String()
}

// WithDefaultOptions fills in defaults when no options are set.
func (r Record) WithDefaultOptions(defaults []string) Record {
	if len(r.Options) == 0 {
		r.Options = append([]string(nil), defaults...)
	}
	return r
}

// Validate checks the record can be written as a single exports line
// without changing meaning.
func (r Record) Validate() error {
	if !filepath.IsAbs(r.Path) || filepath.Clean(r.Path) != r.Path ||
		strings.ContainsAny(r.Path, " \t\n\"#\\") {
		return errors.New(errors.SharesInvalidRecord, "path must be absolute and clean").
			WithMetadata("path", r.Path)
	}
	if !clientRegex.MatchString(r.Client) {
		return errors.New(errors.SharesInvalidRecord, "invalid client selector").
			WithMetadata("client", r.Client)
	}
	for _, opt := range r.Options {
		if !optionRegex.MatchString(opt) {
			return errors.New(errors.SharesInvalidRecord, "invalid export option").
				WithMetadata("option", opt)
		}
	}
	return nil
}

// Flatten expands export lines into one record per client.
func Flatten(lines []parsers.ExportLine) []Record {
	var out []Record
	for _, l := range lines {
		for _, c := range l.Clients {
			out = append(out, Record{Path: l.Path, Client: c.Client, Options: c.Options})
		}
	}
	return out
}

// Divergence lists the keys present in only one of the exports file and the
// live server table.
type Divergence struct {
	FileOnly []Key `json:"file_only"`
	LiveOnly []Key `json:"live_only"`
}

func (d Divergence) InSync() bool {
	return len(d.FileOnly) == 0 && len(d.LiveOnly) == 0
}

// Diff compares the file and live views by key. Options are not compared
// since exportfs -v prints the expanded option set.
func Diff(file, live []Record) Divergence {
	inFile := make(map[Key]bool, len(file))
	for _, r := range file {
		inFile[r.Key()] = true
	}
	inLive := make(map[Key]bool, len(live))
	for _, r := range live {
		inLive[r.Key()] = true
	}

	d := Divergence{FileOnly: []Key{}, LiveOnly: []Key{}}
	for _, r := range file {
		if !inLive[r.Key()] {
			d.FileOnly = append(d.FileOnly, r.Key())
			inLive[r.Key()] = true
		}
	}
	for _, r := range live {
		if !inFile[r.Key()] {
			d.LiveOnly = append(d.LiveOnly, r.Key())
			inFile[r.Key()] = true
		}
	}
	return d
}
