// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package toolchain

import (
	"context"
	"sync"
)

// FakeRunner is a [Runner] that does not run anything. It records all
// commands and calls Fn, if set, for each of them. Fn may create the files
// the real command would have created.
type FakeRunner struct {
	Fn func(cmd Command) (Output, error)

	mu       sync.Mutex
	commands []Command
}

// Run records the command and returns the result of Fn.
func (f *FakeRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Output{}, &ToolError{Step: cmd.Step, Command: cmd.String(), Err: err}
	}

	if f.Fn == nil {
		return Output{}, nil
	}

	return f.Fn(cmd)
}

// Commands returns all commands recorded so far.
func (f *FakeRunner) Commands() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Command(nil), f.commands...)
}

// Reset forgets all recorded commands.
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.commands = nil
}
