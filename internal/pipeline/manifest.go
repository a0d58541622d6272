// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline

import (
	"context"

	"github.com/virt-do/quark/internal/quardle"
)

type manifestStep struct {
	*Pipeline
}

func (*manifestStep) Name() string {
	return "manifest"
}

// Run writes the manifest. It is a pure function of the request, so it is
// always written instead of cached.
func (s *manifestStep) Run(_ context.Context, state *State) error {
	request := state.Request
	manifest := quardle.NewManifest(
		request.Name,
		request.Image,
		request.KernelCmdline,
		request.Offline,
	)

	if err := manifest.WriteFile(s.Layout.Manifest); err != nil {
		return err //nolint:wrapcheck
	}

	state.Manifest = manifest

	return nil
}
