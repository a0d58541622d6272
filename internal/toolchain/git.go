// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package toolchain

import "context"

// Git runs git commands for a pipeline step.
type Git struct {
	Runner Runner
	Step   string
}

// Clone clones the repository into dir.
func (g Git) Clone(ctx context.Context, repository, dir string) error {
	_, err := g.Runner.Run(ctx, Command{
		Step: g.Step,
		Name: "git",
		Args: []string{"clone", repository, dir},
	})
	if err != nil {
		return &SourceControlError{Op: "clone", Repository: repository, Err: err}
	}

	return nil
}

// Checkout checks out ref in the working tree at dir.
func (g Git) Checkout(ctx context.Context, dir, ref string) error {
	_, err := g.Runner.Run(ctx, Command{
		Step: g.Step,
		Name: "git",
		Args: []string{"-C", dir, "checkout", "--quiet", ref},
	})
	if err != nil {
		return &SourceControlError{Op: "checkout " + ref, Repository: dir, Err: err}
	}

	return nil
}
