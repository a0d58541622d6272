// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: MIT

package initramfs

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/cavaliergopher/cpio"
)

const (
	numDirLinks  = 2
	numFileLinks = 1

	modeSetuid = 0o4000
	modeSetgid = 0o2000
	modeSticky = 0o1000
)

// CPIOWriter implements [Writer] for [cpio.Writer]. All entries are owned
// by root:root and have no modification time.
type CPIOWriter struct {
	cpioWriter *cpio.Writer
}

// NewCPIOWriter creates a new archive writer.
func NewCPIOWriter(w io.Writer) *CPIOWriter {
	return &CPIOWriter{cpio.NewWriter(w)}
}

// Close writes the archive trailer. Flush is called by the underlying closer.
func (w *CPIOWriter) Close() error {
	err := w.cpioWriter.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func (w *CPIOWriter) writeHeader(hdr *cpio.Header) error {
	if err := w.cpioWriter.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header for %s: %w", hdr.Name, err)
	}

	return nil
}

// WriteDirectory adds a directory entry for the given path to the archive.
func (w *CPIOWriter) WriteDirectory(path string, mode fs.FileMode) error {
	header := &cpio.Header{
		Name:  path,
		Mode:  cpio.TypeDir | permissions(mode),
		Links: numDirLinks,
	}

	return w.writeHeader(header)
}

// WriteLink adds a symbolic link for the given path pointing to the given
// target.
func (w *CPIOWriter) WriteLink(path, target string) error {
	header := &cpio.Header{
		Name:  path,
		Mode:  cpio.TypeSymlink | cpio.ModePerm,
		Size:  int64(len(target)),
		Links: numFileLinks,
	}
	if err := w.writeHeader(header); err != nil {
		return err
	}

	// Body of a link is the path of the target file.
	if _, err := w.cpioWriter.Write([]byte(target)); err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}

// WriteRegular copies the content of source into the archive.
func (w *CPIOWriter) WriteRegular(path string, source fs.File, mode fs.FileMode) error {
	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("read info: %w", err)
	}

	if !info.Mode().IsRegular() {
		return &fs.PathError{Op: "archive", Path: path, Err: ErrNotRegularFile}
	}

	header := &cpio.Header{
		Name:  path,
		Mode:  cpio.TypeReg | permissions(mode),
		Size:  info.Size(),
		Links: numFileLinks,
	}
	if err := w.writeHeader(header); err != nil {
		return err
	}

	if _, err := io.Copy(w.cpioWriter, source); err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}

func permissions(mode fs.FileMode) cpio.FileMode {
	perm := cpio.FileMode(mode.Perm())

	if mode&fs.ModeSetuid != 0 {
		perm |= modeSetuid
	}

	if mode&fs.ModeSetgid != 0 {
		perm |= modeSetgid
	}

	if mode&fs.ModeSticky != 0 {
		perm |= modeSticky
	}

	return perm
}
