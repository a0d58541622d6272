// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import "errors"

var (
	// ErrNoRecord is returned if there is no record for an artifact kind.
	ErrNoRecord = errors.New("no cache record")

	// ErrInvalidKind is returned for empty or malformed artifact kinds.
	ErrInvalidKind = errors.New("invalid artifact kind")
)
