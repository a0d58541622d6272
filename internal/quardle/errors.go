// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quardle

import (
	"errors"
	"fmt"
)

var (
	// ErrBundleMismatch is returned if a manifest has a bundle path but is
	// not offline, or is offline without bundle path.
	ErrBundleMismatch = errors.New("bundle must be set if and only if offline")

	// ErrEmptyName is returned if a manifest has no quardle name.
	ErrEmptyName = errors.New("empty quardle name")
)

// ManifestError is returned if a manifest can not be encoded, decoded or is
// invalid.
type ManifestError struct {
	Op  string
	Err error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Op, e.Err)
}

// Is returns true if the other error is a [ManifestError] as well.
func (e *ManifestError) Is(other error) bool {
	_, ok := other.(*ManifestError)
	return ok
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}
