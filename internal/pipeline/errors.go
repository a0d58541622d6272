// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned if a build request is invalid.
	ErrInvalidRequest = errors.New("invalid build request")

	// ErrInvalidBundle is returned if the bundle procedure produced a
	// directory that is not an OCI bundle.
	ErrInvalidBundle = errors.New("invalid container bundle")

	// ErrMissingProcedure is returned if a procedure required for the
	// request is not configured.
	ErrMissingProcedure = errors.New("procedure not configured")
)

// StepError is returned if a pipeline step failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

// Is returns true if the other error is a [StepError] as well.
func (e *StepError) Is(other error) bool {
	_, ok := other.(*StepError)
	return ok
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// CleanupError is returned if the quardle was built successfully but the
// staging directory could not be cleaned up. The build result is valid.
type CleanupError struct {
	Err error
}

func (e *CleanupError) Error() string {
	return "cleanup: " + e.Err.Error()
}

// Is returns true if the other error is a [CleanupError] as well.
func (e *CleanupError) Is(other error) bool {
	_, ok := other.(*CleanupError)
	return ok
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}
