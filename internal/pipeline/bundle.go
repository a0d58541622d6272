// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/virt-do/quark/internal/cache"
)

// Members every OCI runtime bundle must have.
const (
	bundleConfig = "config.json"
	bundleRootfs = "rootfs"
)

type bundleStep struct {
	*Pipeline
}

func (*bundleStep) Name() string {
	return "bundle"
}

func (s *bundleStep) Run(ctx context.Context, state *State) error {
	bundle := artifact{
		kind:     cache.KindBundle,
		path:     s.Layout.Bundle,
		key:      state.Request.Image,
		validate: validateBundle,
	}

	return bundle.ensure(ctx, state, func(ctx context.Context) error {
		path, err := s.Bundle.Build(ctx, state.Request.Image)
		if err != nil {
			return err //nolint:wrapcheck
		}

		state.Logger.Debug("Bundle created", slog.String("output", path))

		return nil
	})
}

// validateBundle checks that dir looks like an OCI runtime bundle.
func validateBundle(dir string) error {
	config, err := os.Stat(filepath.Join(dir, bundleConfig))
	if err != nil || !config.Mode().IsRegular() {
		return fmt.Errorf("%w: %s: missing %s", ErrInvalidBundle, dir, bundleConfig)
	}

	rootfs, err := os.Stat(filepath.Join(dir, bundleRootfs))
	if err != nil || !rootfs.IsDir() {
		return fmt.Errorf("%w: %s: missing %s directory", ErrInvalidBundle, dir, bundleRootfs)
	}

	return nil
}
