// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package files

import "errors"

var (
	// ErrUnsupportedFileType is returned for file types other than regular
	// files, directories and symbolic links.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrCommitted is returned if an [AtomicFile] is committed after it has
	// already been committed or aborted.
	ErrCommitted = errors.New("file already committed")
)
