// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline

import (
	"errors"
	"log/slog"

	"github.com/virt-do/quark/internal/cache"
)

// cleanup removes the request specific intermediates and their records from
// the staging directory. The kaps binary and the kernel are kept, since
// they are the same for all quardles.
func (p *Pipeline) cleanup(state *State) error {
	state.Logger.Debug("Remove intermediates", slog.Any("paths", p.Layout.Intermediates()))

	return errors.Join(
		p.Layout.RemoveIntermediates(),
		state.Cache.Drop(cache.KindBundle, cache.KindInitramfs),
	)
}
