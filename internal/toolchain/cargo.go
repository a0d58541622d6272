// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package toolchain

import "context"

// Cargo runs cargo commands for a pipeline step.
type Cargo struct {
	Runner Runner
	Step   string
}

// BuildRelease builds the crate in dir in release mode for the given target
// triple.
func (c Cargo) BuildRelease(ctx context.Context, dir, target string) error {
	_, err := c.Runner.Run(ctx, Command{
		Step: c.Step,
		Name: "cargo",
		Args: []string{"build", "--release", "--target=" + target},
		Dir:  dir,
	})

	return err
}
