// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package nfs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/parsers"
	"golang.org/x/sys/unix"
)

const DefaultExportsFile = "/etc/exports"

// Store is the exports file. Every operation reads the whole file and
// rewrites it through a temporary file and rename, under both a process
// mutex and an advisory lock on <file>.lock.
//
// Lines the store does not touch are written back byte for byte, so an
// append followed by removal of the same record restores the file exactly.
type Store struct {
	path   string
	parser parsers.ExportsParser
	mu     sync.Mutex
}

func NewStore(path string, p parsers.ExportsParser) *Store {
	if path == "" {
		path = DefaultExportsFile
	}
	return &Store{path: path, parser: p}
}

// Path returns the exports file location.
func (s *Store) Path() string {
	return s.path
}

// exportsDoc is the file split into physical lines. Terminated records
// whether the last line ended with a newline.
type exportsDoc struct {
	lines      []string
	terminated bool
	mode       fs.FileMode
}

// List returns every record in the file, one per client.
func (s *Store) List() ([]Record, error) {
	var records []Record
	err := s.withLock(func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		records = s.records(doc)
		return nil
	})
	return records, err
}

// Append adds r as a new line. It does not check for duplicates.
func (s *Store) Append(r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	return s.withLock(func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		// An unterminated last line takes its newline from the separator and
		// the new line stays unterminated.
		if len(doc.lines) == 0 {
			doc.terminated = true
		}
		doc.lines = append(doc.lines, r.Line())
		return s.write(doc)
	})
}

// RemoveMatching drops every record for which match returns true and
// reports whether any did. An entry with several clients keeps the
// non-matching ones, re-rendered onto a single line. Comments, blanks and
// unparsable lines are kept as they are.
func (s *Store) RemoveMatching(match func(Record) bool) (bool, error) {
	removed := false
	err := s.withLock(func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}

		var kept []string
		for _, ll := range parsers.LogicalLines(doc.lines) {
			physical := doc.lines[ll.Start : ll.End+1]
			if !ll.Record {
				kept = append(kept, physical...)
				continue
			}
			line, ok := s.parser.ParseExportLine(ll.Text)
			if !ok {
				kept = append(kept, physical...)
				continue
			}

			var rest []parsers.ClientSpec
			for _, c := range line.Clients {
				if match(Record{Path: line.Path, Client: c.Client, Options: c.Options}) {
					continue
				}
				rest = append(rest, c)
			}

			switch {
			case len(rest) == len(line.Clients):
				kept = append(kept, physical...)
			case len(rest) == 0:
				removed = true
			default:
				removed = true
				line.Clients = rest
				kept = append(kept, line.String())
			}
		}

		if !removed {
			return nil
		}
		doc.lines = kept
		return s.write(doc)
	})
	return removed, err
}

func (s *Store) records(doc exportsDoc) []Record {
	var lines []parsers.ExportLine
	for _, ll := range parsers.LogicalLines(doc.lines) {
		if !ll.Record {
			continue
		}
		if line, ok := s.parser.ParseExportLine(ll.Text); ok {
			lines = append(lines, line)
		}
	}
	return Flatten(lines)
}

func (s *Store) read() (exportsDoc, error) {
	doc := exportsDoc{mode: 0o644}

	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return doc, errors.Wrap(err, errors.SharesStoreRead).WithMetadata("path", s.path)
	}
	doc.mode = info.Mode().Perm()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return doc, errors.Wrap(err, errors.SharesStoreRead).WithMetadata("path", s.path)
	}
	if len(data) == 0 {
		return doc, nil
	}

	content := string(data)
	doc.terminated = strings.HasSuffix(content, "\n")
	content = strings.TrimSuffix(content, "\n")
	doc.lines = strings.Split(content, "\n")
	return doc, nil
}

func (s *Store) write(doc exportsDoc) error {
	var content string
	if len(doc.lines) > 0 {
		content = strings.Join(doc.lines, "\n")
		if doc.terminated {
			content += "\n"
		}
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return errors.Wrap(err, errors.SharesStoreWrite).WithMetadata("path", s.path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.SharesStoreWrite).WithMetadata("path", s.path)
	}
	if err := tmp.Chmod(doc.mode); err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.SharesStoreWrite).WithMetadata("path", s.path)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.SharesStoreWrite).WithMetadata("path", s.path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.SharesStoreWrite).WithMetadata("path", s.path)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.Wrap(err, errors.SharesStoreWrite).WithMetadata("path", s.path)
	}
	return nil
}

func (s *Store) withLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lf, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return errors.Wrap(err, errors.SharesStoreLock).WithMetadata("path", s.path)
	}
	defer lf.Close()

	if err := unix.Flock(int(lf.Fd()), unix.LOCK_EX); err != nil {
		return errors.Wrap(err, errors.SharesStoreLock).WithMetadata("path", s.path)
	}
	defer unix.Flock(int(lf.Fd()), unix.LOCK_UN)

	return fn()
}
