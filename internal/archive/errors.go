// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import "errors"

var (
	// ErrInsecurePath is returned for archive entries that would be
	// extracted outside of the target directory.
	ErrInsecurePath = errors.New("insecure path in archive")

	// ErrUnsupportedEntry is returned for archive entries of types other
	// than regular files, directories, symbolic and hard links.
	ErrUnsupportedEntry = errors.New("unsupported archive entry type")

	// ErrMemberNotFound is returned if an archive does not contain the
	// requested member.
	ErrMemberNotFound = errors.New("archive member not found")

	// ErrExist is returned if the extraction target already exists.
	ErrExist = errors.New("target already exists")
)
