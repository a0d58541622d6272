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

	"github.com/klauspost/compress/gzip"
)

// Writer writes a gzip compressed tar archive. Entries are written in the
// order they are added. All entries are owned by root.
type Writer struct {
	gzipWriter *gzip.Writer
	tarWriter  *tar.Writer
}

// NewWriter creates a new [Writer] writing to w.
func NewWriter(w io.Writer) *Writer {
	gzipWriter := gzip.NewWriter(w)

	return &Writer{
		gzipWriter: gzipWriter,
		tarWriter:  tar.NewWriter(gzipWriter),
	}
}

// Close writes the tar trailer and flushes the gzip stream. It does not
// close the underlying writer.
func (w *Writer) Close() error {
	if err := w.tarWriter.Close(); err != nil {
		_ = w.gzipWriter.Close()
		return fmt.Errorf("close tar: %w", err)
	}

	if err := w.gzipWriter.Close(); err != nil {
		return fmt.Errorf("close gzip: %w", err)
	}

	return nil
}

func (w *Writer) writeHeader(info fs.FileInfo, name, link string) error {
	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return fmt.Errorf("header for %s: %w", name, err)
	}

	header.Name = name
	header.Uid = 0
	header.Gid = 0
	header.Uname = ""
	header.Gname = ""

	if info.IsDir() {
		header.Name += "/"
	}

	if err := w.tarWriter.WriteHeader(header); err != nil {
		return fmt.Errorf("write header for %s: %w", name, err)
	}

	return nil
}

func (w *Writer) writeBody(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(w.tarWriter, file); err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}

// AddFile adds the regular file at path as member name.
func (w *Writer) AddFile(name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("add file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return &fs.PathError{Op: "add file", Path: path, Err: ErrUnsupportedEntry}
	}

	if err := w.writeHeader(info, name, ""); err != nil {
		return err
	}

	return w.writeBody(path)
}

// AddTree adds the directory at dir and everything below it with the
// member name prefix name.
func (w *Writer) AddTree(name, dir string) error {
	return filepath.WalkDir(dir, func(current string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, current)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}

		member := path.Join(name, filepath.ToSlash(rel))

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("info: %w", err)
		}

		switch info.Mode().Type() {
		case fs.ModeDir:
			return w.writeHeader(info, member, "")
		case fs.ModeSymlink:
			link, err := os.Readlink(current)
			if err != nil {
				return fmt.Errorf("read link: %w", err)
			}

			return w.writeHeader(info, member, link)
		case 0:
			if err := w.writeHeader(info, member, ""); err != nil {
				return err
			}

			return w.writeBody(current)
		default:
			return &fs.PathError{Op: "add tree", Path: current, Err: ErrUnsupportedEntry}
		}
	})
}
