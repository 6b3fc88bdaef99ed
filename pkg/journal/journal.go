// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package journal persists audit records of lifecycle operations so they
// survive restarts and can be queried over the API.
package journal

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/orchestrator"
)

const (
	// DefaultListLimit applies when List is asked for zero records.
	DefaultListLimit = 100

	recordPrefix = "op/"
)

// Config locates the journal. InMemory ignores Path.
type Config struct {
	Path     string
	InMemory bool
	// Retain caps the stored records; the oldest are dropped first. Zero
	// keeps everything.
	Retain int
}

// Journal is an orchestrator.AuditSink backed by badger. Keys sort by
// append order, so a reverse scan yields the newest records first.
type Journal struct {
	logger logger.Logger
	db     *badger.DB
	seq    *badger.Sequence
	retain int

	// pruneMu keeps two retention passes from deleting the same keys.
	pruneMu sync.Mutex
}

func Open(l logger.Logger, cfg Config) (*Journal, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.JournalOpenFailed).WithMetadata("path", cfg.Path)
	}
	seq, err := db.GetSequence([]byte("seq/records"), 64)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.JournalOpenFailed).WithMetadata("path", cfg.Path)
	}

	return &Journal{logger: l, db: db, seq: seq, retain: cfg.Retain}, nil
}

// Close releases the sequence lease and closes the database.
func (j *Journal) Close() error {
	if err := j.seq.Release(); err != nil {
		j.logger.Warn("Failed to release journal sequence", "err", err)
	}
	return j.db.Close()
}

// Record appends rec. It satisfies orchestrator.AuditSink.
func (j *Journal) Record(_ context.Context, rec orchestrator.AuditRecord) error {
	n, err := j.seq.Next()
	if err != nil {
		return errors.Wrap(err, errors.JournalWriteFailed)
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, errors.JournalWriteFailed)
	}

	if err := j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(n), value)
	}); err != nil {
		return errors.Wrap(err, errors.JournalWriteFailed).WithMetadata("id", rec.ID)
	}

	if j.retain > 0 {
		if err := j.prune(); err != nil {
			j.logger.Warn("Failed to prune operation journal", "err", err)
		}
	}
	return nil
}

// List returns up to limit records, newest first.
func (j *Journal) List(limit int) ([]orchestrator.AuditRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	records := make([]orchestrator.AuditRecord, 0, limit)
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(recordPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// A reverse scan must start past the last key under the prefix.
		for it.Seek(append([]byte(recordPrefix), 0xff)); it.Valid() && len(records) < limit; it.Next() {
			var rec orchestrator.AuditRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.JournalReadFailed)
	}
	return records, nil
}

// Get returns the record with the given operation id.
func (j *Journal) Get(id string) (orchestrator.AuditRecord, bool, error) {
	var (
		found bool
		out   orchestrator.AuditRecord
	)
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec orchestrator.AuditRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			if rec.ID == id {
				out, found = rec, true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return out, false, errors.Wrap(err, errors.JournalReadFailed)
	}
	return out, found, nil
}

// prune drops the oldest records beyond the retention cap.
func (j *Journal) prune() error {
	j.pruneMu.Lock()
	defer j.pruneMu.Unlock()

	var keys [][]byte
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(recordPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}

	excess := len(keys) - j.retain
	if excess <= 0 {
		return nil
	}

	wb := j.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys[:excess] {
		if err := wb.Delete(k); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func recordKey(n uint64) []byte {
	key := make([]byte, len(recordPrefix)+8)
	copy(key, recordPrefix)
	binary.BigEndian.PutUint64(key[len(recordPrefix):], n)
	return key
}
