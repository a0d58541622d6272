// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package files

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyFile copies the regular file src to dst with the given permissions.
// Missing parent directories of dst are created. An existing dst is
// replaced.
func CopyFile(src, dst string, perm fs.FileMode) error {
	source, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	if !info.Mode().IsRegular() {
		return &fs.PathError{Op: "copy", Path: src, Err: ErrUnsupportedFileType}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create parent: %w", err)
	}

	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing: %w", err)
	}

	target, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create target: %w", err)
	}

	if _, err := io.Copy(target, source); err != nil {
		_ = target.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}

	if err := target.Close(); err != nil {
		return fmt.Errorf("close target: %w", err)
	}

	// The umask may have reduced the requested permissions.
	if err := os.Chmod(dst, perm); err != nil {
		return fmt.Errorf("chmod target: %w", err)
	}

	return nil
}

// CopyTree recursively copies the directory src to dst. Regular files keep
// their permissions, symbolic links are copied as they are. Other file types
// result in [ErrUnsupportedFileType].
func CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}

		target := filepath.Join(dst, rel)

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("info %s: %w", path, err)
		}

		switch info.Mode().Type() {
		case fs.ModeDir:
			if err := os.MkdirAll(target, info.Mode().Perm()|0o700); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
		case fs.ModeSymlink:
			link, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("read link: %w", err)
			}

			if err := os.Symlink(link, target); err != nil {
				return fmt.Errorf("create link: %w", err)
			}
		case 0:
			if err := CopyFile(path, target, info.Mode().Perm()); err != nil {
				return err
			}
		default:
			return &fs.PathError{Op: "copy", Path: path, Err: ErrUnsupportedFileType}
		}

		return nil
	})
}
