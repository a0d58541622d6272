// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"context"
	"fmt"
	"io/fs"
)

// WriteFS writes all entries of fsys in lexical order to the writer. The
// root directory itself is not written. Symbolic links are written as they
// are and must not point outside of fsys to be valid in the archive.
//
// The fsys must implement [fs.ReadLinkFS] if it contains symbolic links.
func WriteFS(ctx context.Context, fsys fs.FS, writer Writer) error {
	return fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck
		}

		if path == "." {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("info: %w", err)
		}

		switch entry.Type() {
		case fs.ModeDir:
			return writer.WriteDirectory(path, info.Mode())
		case fs.ModeSymlink:
			target, err := fs.ReadLink(fsys, path)
			if err != nil {
				return fmt.Errorf("read link: %w", err)
			}

			return writer.WriteLink(path, target)
		case 0:
			return writeRegular(fsys, path, info.Mode(), writer)
		default:
			return &fs.PathError{Op: "archive", Path: path, Err: ErrUnsupportedFileType}
		}
	})
}

func writeRegular(fsys fs.FS, path string, mode fs.FileMode, writer Writer) error {
	source, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer source.Close()

	return writer.WriteRegular(path, source, mode)
}
