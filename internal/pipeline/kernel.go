// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline

import (
	"context"
	"log/slog"

	"github.com/virt-do/quark/internal/cache"
)

type kernelStep struct {
	*Pipeline
}

func (*kernelStep) Name() string {
	return "kernel"
}

func (s *kernelStep) Run(ctx context.Context, state *State) error {
	kernel := artifact{
		kind: cache.KindKernel,
		path: s.Layout.Kernel,
	}

	return kernel.ensure(ctx, state, func(ctx context.Context) error {
		path, err := s.Kernel.Build(ctx)
		if err != nil {
			return err //nolint:wrapcheck
		}

		state.Logger.Debug("Kernel built", slog.String("output", path))

		return nil
	})
}
