// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/virt-do/quark/internal/files"
)

// Kind is the kind of an artifact. There is at most one record per kind.
type Kind string

// Artifact kinds produced by the build pipeline.
const (
	KindKaps      Kind = "kaps"
	KindKernel    Kind = "kernel"
	KindBundle    Kind = "bundle"
	KindInitramfs Kind = "initramfs"
)

func (k Kind) validate() error {
	if k == "" || strings.ContainsAny(string(k), "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidKind, k)
	}

	return nil
}

// Record marks an artifact as completely built.
type Record struct {
	Kind Kind   `json:"kind"`
	Path string `json:"path"`
	// Key identifies the inputs the artifact was built from. An artifact
	// built from different inputs is stale.
	Key         string    `json:"key,omitempty"`
	Checksum    string    `json:"checksum"`
	BuildID     string    `json:"build_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// Status is the result of [Store.Check].
type Status int

const (
	// StatusMissing means the artifact does not exist.
	StatusMissing Status = iota
	// StatusValid means the artifact exists and matches its record.
	StatusValid
	// StatusUntracked means the artifact exists but has no record. It was
	// left by a previous run or placed there by the user.
	StatusUntracked
	// StatusStale means the artifact exists but does not match its record.
	StatusStale
)

func (s Status) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusValid:
		return "valid"
	case StatusUntracked:
		return "untracked"
	case StatusStale:
		return "stale"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Store stores records as JSON files in a directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore returns a [Store] for the given directory. The directory is
// created on the first commit.
func NewStore(dir string) *Store {
	return &Store{
		dir: dir,
		now: time.Now,
	}
}

// Dir returns the directory the records are stored in.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) recordPath(kind Kind) string {
	return filepath.Join(s.dir, string(kind)+".json")
}

// Load returns the record for the given kind. [ErrNoRecord] is returned if
// there is none.
func (s *Store) Load(kind Kind) (Record, error) {
	var record Record

	if err := kind.validate(); err != nil {
		return record, err
	}

	data, err := os.ReadFile(s.recordPath(kind))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return record, fmt.Errorf("%s: %w", kind, ErrNoRecord)
		}

		return record, fmt.Errorf("read record: %w", err)
	}

	if err := json.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("decode record %s: %w", kind, err)
	}

	return record, nil
}

// Check returns the [Status] of the artifact of the given kind at path built
// from inputs identified by key.
//
// A record without artifact is removed. A record that can not be decoded
// is treated like a record that does not match.
func (s *Store) Check(kind Kind, path, key string) (Status, error) {
	exists, err := files.Exists(path)
	if err != nil {
		return StatusMissing, err //nolint:wrapcheck
	}

	if !exists {
		if err := s.Drop(kind); err != nil {
			return StatusMissing, err
		}

		return StatusMissing, nil
	}

	record, err := s.Load(kind)
	switch {
	case errors.Is(err, ErrNoRecord):
		return StatusUntracked, nil
	case errors.Is(err, ErrInvalidKind):
		return StatusMissing, err
	case err != nil:
		return StatusStale, nil
	}

	if record.Path != path || record.Key != key {
		return StatusStale, nil
	}

	checksum, err := Checksum(path)
	if err != nil {
		return StatusMissing, err
	}

	if checksum != record.Checksum {
		return StatusStale, nil
	}

	return StatusValid, nil
}

// Commit computes the checksum of the artifact at path and stores the
// record for it. The record is written atomically.
func (s *Store) Commit(kind Kind, path, key, buildID string) (Record, error) {
	if err := kind.validate(); err != nil {
		return Record{}, err
	}

	checksum, err := Checksum(path)
	if err != nil {
		return Record{}, err
	}

	record := Record{
		Kind:        kind,
		Path:        path,
		Key:         key,
		Checksum:    checksum,
		BuildID:     buildID,
		CompletedAt: s.now().UTC(),
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return Record{}, fmt.Errorf("encode record: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Record{}, fmt.Errorf("create cache directory: %w", err)
	}

	if err := files.WriteFileAtomic(s.recordPath(kind), data, 0o644); err != nil {
		return Record{}, fmt.Errorf("write record %s: %w", kind, err)
	}

	return record, nil
}

// Drop removes the records of the given kinds. Missing records are ignored.
func (s *Store) Drop(kinds ...Kind) error {
	var errs []error

	for _, kind := range kinds {
		if err := kind.validate(); err != nil {
			errs = append(errs, err)
			continue
		}

		err := os.Remove(s.recordPath(kind))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("drop record: %w", err))
		}
	}

	return errors.Join(errs...)
}
