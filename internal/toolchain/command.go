// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package toolchain

import (
	"context"
	"strings"
)

// Command describes a single invocation of an external program.
type Command struct {
	// Step is the name of the pipeline step the command runs for. It is only
	// used for logging and error context.
	Step string
	Name string
	Args []string
	// Dir is the working directory. Empty means the current one.
	Dir string
	// Env is appended to the environment of the current process.
	Env []string
}

// String returns the command line as it would be typed in a shell, without
// any quoting.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Output holds the lines a finished command wrote. Only the last
// [MaxCapturedLines] lines of each stream are kept.
type Output struct {
	Stdout []string
	Stderr []string
}

// Runner runs external commands to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}
