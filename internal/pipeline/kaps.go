// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/virt-do/quark/internal/cache"
	"github.com/virt-do/quark/internal/executable"
	"github.com/virt-do/quark/internal/files"
	"github.com/virt-do/quark/internal/toolchain"
)

// Defaults for [KapsSource].
const (
	DefaultKapsRepository = "https://github.com/virt-do/kaps.git"
	DefaultKapsRef        = "cdce0eb"
)

// KapsSource is where the kaps container runtime is built from.
type KapsSource struct {
	Repository string
	// Ref is the git revision that is checked out before building.
	Ref string
	// Target is the target triple passed to cargo. It must match the target
	// of the [staging.Layout].
	Target string
}

func (s KapsSource) key() string {
	return fmt.Sprintf("%s@%s %s", s.Repository, s.Ref, s.Target)
}

type kapsStep struct {
	*Pipeline
}

func (*kapsStep) Name() string {
	return "kaps"
}

func (s *kapsStep) Run(ctx context.Context, state *State) error {
	binary := artifact{
		kind:     cache.KindKaps,
		path:     s.Layout.KapsBinary,
		key:      s.Kaps.key(),
		validate: s.validateBinary,
	}

	return binary.ensure(ctx, state, s.build)
}

// validateBinary checks that the kaps binary runs in the guest without a dynamic
// loader.
func (s *kapsStep) validateBinary(path string) error {
	machine, err := executable.MachineForTarget(s.Kaps.Target)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return executable.ValidateStatic(path, machine) //nolint:wrapcheck
}

func (s *kapsStep) build(ctx context.Context) error {
	git := toolchain.Git{Runner: s.Runner, Step: s.Name()}
	cargo := toolchain.Cargo{Runner: s.Runner, Step: s.Name()}

	checkout, err := files.Exists(filepath.Join(s.Layout.KapsSource, ".git"))
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !checkout {
		if err := os.RemoveAll(s.Layout.KapsSource); err != nil {
			return fmt.Errorf("remove incomplete checkout: %w", err)
		}

		if err := git.Clone(ctx, s.Kaps.Repository, s.Layout.KapsSource); err != nil {
			return err //nolint:wrapcheck
		}
	}

	if err := git.Checkout(ctx, s.Layout.KapsSource, s.Kaps.Ref); err != nil {
		return err //nolint:wrapcheck
	}

	return cargo.BuildRelease(ctx, s.Layout.KapsSource, s.Kaps.Target) //nolint:wrapcheck
}
