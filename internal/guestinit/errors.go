// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestinit

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPidOne is returned if the process is expected to be run as PID 1
	// but is not.
	ErrNotPidOne = errors.New("process does not have ID 1")

	// ErrNoRuntime is returned if no runtime binary is configured.
	ErrNoRuntime = errors.New("no runtime configured")

	// ErrInvalidConfig is returned if the configuration file can not be
	// decoded or has unknown keys.
	ErrInvalidConfig = errors.New("invalid init configuration")
)

// OptionalMountError is a collection of errors that occurred for mount points
// that may fail.
type OptionalMountError []error

func (e OptionalMountError) Error() string {
	return fmt.Sprintf("optional mount errors: %q", []error(e))
}

func (OptionalMountError) Is(other error) bool {
	_, ok := other.(OptionalMountError)
	return ok
}

func (e OptionalMountError) Unwrap() []error {
	return e
}
