// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/virt-do/quark/internal/files"
)

// Extract extracts the gzip compressed tar stream r into the existing
// directory dir.
func Extract(r io.Reader, dir string) error {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return fmt.Errorf("open target: %w", err)
	}
	defer root.Close()

	return walk(r, func(header *tar.Header, body io.Reader) error {
		return extractEntry(root, header, body)
	})
}

func extractEntry(root *os.Root, header *tar.Header, body io.Reader) error {
	name, err := localName(header.Name)
	if err != nil {
		return err
	}

	if name == "." {
		return nil
	}

	if header.Typeflag == tar.TypeXGlobalHeader {
		return nil
	}

	mode := header.FileInfo().Mode()

	if parent := path.Dir(name); parent != "." {
		if err := root.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("create parent of %s: %w", name, err)
		}
	}

	switch header.Typeflag {
	case tar.TypeDir:
		if err := root.MkdirAll(name, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", name, err)
		}

		if err := root.Chmod(name, mode.Perm()|0o700); err != nil {
			return fmt.Errorf("chmod %s: %w", name, err)
		}
	case tar.TypeReg:
		file, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
		if err != nil {
			return fmt.Errorf("create file %s: %w", name, err)
		}

		if _, err := io.Copy(file, body); err != nil {
			_ = file.Close()
			return fmt.Errorf("write file %s: %w", name, err)
		}

		if err := file.Close(); err != nil {
			return fmt.Errorf("close file %s: %w", name, err)
		}

		if err := root.Chmod(name, mode&(fs.ModePerm|fs.ModeSetuid|fs.ModeSetgid|fs.ModeSticky)); err != nil {
			return fmt.Errorf("chmod %s: %w", name, err)
		}
	case tar.TypeSymlink:
		if err := root.Symlink(header.Linkname, name); err != nil {
			return fmt.Errorf("create symlink %s: %w", name, err)
		}
	case tar.TypeLink:
		target, err := localName(header.Linkname)
		if err != nil {
			return err
		}

		if err := root.Link(target, name); err != nil {
			return fmt.Errorf("create hard link %s: %w", name, err)
		}
	default:
		return &fs.PathError{Op: "extract", Path: header.Name, Err: ErrUnsupportedEntry}
	}

	return nil
}

func localName(name string) (string, error) {
	cleaned := path.Clean(name)
	if cleaned == "." {
		return cleaned, nil
	}

	if !filepath.IsLocal(filepath.FromSlash(cleaned)) {
		return "", fmt.Errorf("%w: %s", ErrInsecurePath, name)
	}

	return cleaned, nil
}

// ExtractFile extracts the archive file at archivePath into the existing
// directory dir.
func ExtractFile(archivePath, dir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	return Extract(file, dir)
}

// ExtractAtomic extracts the archive file at archivePath into a temporary
// directory next to dir and renames it to dir once complete. dir must not
// exist. On error, nothing is left behind.
func ExtractAtomic(archivePath, dir string) error {
	exists, err := files.Exists(dir)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if exists {
		return &fs.PathError{Op: "extract", Path: dir, Err: ErrExist}
	}

	parent, base := filepath.Split(filepath.Clean(dir))
	if parent == "" {
		parent = "."
	}

	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create parent: %w", err)
	}

	tmpDir, err := os.MkdirTemp(parent, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	if err := ExtractFile(archivePath, tmpDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return err
	}

	// MkdirTemp creates the directory with mode 0700.
	if err := os.Chmod(tmpDir, 0o755); err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("chmod: %w", err)
	}

	if err := os.Rename(tmpDir, dir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}
