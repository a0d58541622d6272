// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package toolchain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOutput is returned if a procedure exited successfully but did not
	// produce its output.
	ErrNoOutput = errors.New("procedure did not produce its output")

	// ErrEmptyCommand is returned if a command without executable is run.
	ErrEmptyCommand = errors.New("empty command")
)

// ToolError is returned if an external tool could not be started or exited
// with non-zero exit code.
type ToolError struct {
	Step     string
	Command  string
	ExitCode int
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Step, e.Command)
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}

	return msg + ": " + e.Err.Error()
}

// Is returns true if the other error is a [ToolError] as well.
func (e *ToolError) Is(other error) bool {
	_, ok := other.(*ToolError)
	return ok
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// SourceControlError is returned if a git operation failed.
type SourceControlError struct {
	Op         string
	Repository string
	Err        error
}

func (e *SourceControlError) Error() string {
	return fmt.Sprintf("git %s %s: %v", e.Op, e.Repository, e.Err)
}

// Is returns true if the other error is a [SourceControlError] as well.
func (e *SourceControlError) Is(other error) bool {
	_, ok := other.(*SourceControlError)
	return ok
}

func (e *SourceControlError) Unwrap() error {
	return e.Err
}
