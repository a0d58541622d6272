// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import "errors"

var (
	// ErrNotRegularFile is returned if the source of a regular file entry is
	// not a regular file.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrUnsupportedFileType is returned for file types that can not be
	// added to the archive, like devices, sockets and named pipes.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrUnknownCompression is returned for compression names that are not
	// supported.
	ErrUnknownCompression = errors.New("unknown compression")
)
