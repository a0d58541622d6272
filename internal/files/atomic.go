// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// AtomicFile is a temporary file that replaces the file at its target path
// once it is committed. Until then the target path is left untouched.
type AtomicFile struct {
	*os.File

	path string
	perm fs.FileMode
	done bool
}

// CreateAtomic creates a temporary file in the directory of path. It must
// either be committed with [AtomicFile.Commit] or discarded with
// [AtomicFile.Abort].
func CreateAtomic(path string, perm fs.FileMode) (*AtomicFile, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	file, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	return &AtomicFile{
		File: file,
		path: path,
		perm: perm,
	}, nil
}

// Path returns the target path the file is renamed to on commit.
func (f *AtomicFile) Path() string {
	return f.path
}

// Commit syncs and closes the temporary file and renames it to the target
// path. If anything fails, the temporary file is removed.
func (f *AtomicFile) Commit() error {
	if f.done {
		return ErrCommitted
	}

	f.done = true

	err := f.commit()
	if err != nil {
		_ = f.File.Close()
		_ = os.Remove(f.Name())
	}

	return err
}

func (f *AtomicFile) commit() error {
	if err := f.Chmod(f.perm); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if err := f.File.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(f.Name(), f.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// Abort closes and removes the temporary file. It is a no-op after
// [AtomicFile.Commit], so it can be deferred right after creation.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}

	f.done = true

	_ = f.File.Close()
	_ = os.Remove(f.Name())
}

// WriteFileAtomic writes data to a temporary file and renames it to path.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	file, err := CreateAtomic(path, perm)
	if err != nil {
		return err
	}
	defer file.Abort()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return file.Commit()
}

// Exists returns true if something exists at path. Symbolic links are not
// followed.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("lstat: %w", err)
}
