// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: MIT

package initramfs

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/virt-do/quark/internal/files"
)

// Build writes the directory tree rooted at dir as compressed cpio archive
// to path.
//
// The archive is written to a temporary file next to path that is synced and
// renamed once complete. On error, path is left untouched.
func Build(ctx context.Context, dir, path string, compression Compression) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("root directory: %w", err)
	}

	if !info.IsDir() {
		return &os.PathError{Op: "build", Path: dir, Err: ErrUnsupportedFileType}
	}

	file, err := files.CreateAtomic(path, 0o644)
	if err != nil {
		return err
	}
	defer file.Abort()

	buffered := bufio.NewWriter(file)

	compressor, err := compression.NewWriter(buffered)
	if err != nil {
		return err
	}

	archive := NewCPIOWriter(compressor)

	if err := WriteFS(ctx, os.DirFS(dir), archive); err != nil {
		_ = compressor.Close()
		return fmt.Errorf("write archive: %w", err)
	}

	if err := archive.Close(); err != nil {
		_ = compressor.Close()
		return err
	}

	if err := compressor.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}

	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return file.Commit()
}
