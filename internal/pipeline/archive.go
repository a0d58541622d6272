// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/virt-do/quark/internal/quardle"
)

type archiveStep struct {
	*Pipeline
}

func (*archiveStep) Name() string {
	return "archive"
}

func (s *archiveStep) Run(ctx context.Context, state *State) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	inputs := quardle.Inputs{
		Manifest:  s.Layout.Manifest,
		Kernel:    s.Layout.Kernel,
		Initramfs: s.Layout.Initramfs,
	}

	if state.Request.Offline {
		inputs.Bundle = s.Layout.Bundle
	}

	path := s.ArchivePath(state.Request.Name)

	if err := quardle.Pack(path, inputs); err != nil {
		return err //nolint:wrapcheck
	}

	state.Archive = path
	state.Logger.Debug("Archive written", slog.String("path", path))

	return nil
}
