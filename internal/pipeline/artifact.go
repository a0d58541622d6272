// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/virt-do/quark/internal/cache"
	"github.com/virt-do/quark/internal/files"
	"github.com/virt-do/quark/internal/toolchain"
)

// artifact is a memoized build output.
type artifact struct {
	kind cache.Kind
	path string
	// key identifies the inputs. Artifacts with a record for another key
	// are rebuilt.
	key string
	// validate, if set, checks the artifact before it is reused or
	// recorded.
	validate func(path string) error
}

// ensure makes sure the artifact exists and matches its record.
//
// A valid artifact is reused. An artifact without record, left by an older
// run or placed by the user, is adopted if it passes validation. Anything
// else is removed and built by calling build.
func (a artifact) ensure(ctx context.Context, state *State, build func(context.Context) error) error {
	logger := state.Logger.With(slog.String("path", a.path))

	status, err := state.Cache.Check(a.kind, a.path, a.key)
	if err != nil {
		return fmt.Errorf("check cache: %w", err)
	}

	if status == cache.StatusValid || status == cache.StatusUntracked {
		if a.validate == nil || a.validate(a.path) == nil {
			return a.reuse(state, status, logger)
		}

		status = cache.StatusStale
	}

	if status == cache.StatusStale {
		logger.Info("Artifact is stale, rebuilding", slog.String("kind", string(a.kind)))

		if err := os.RemoveAll(a.path); err != nil {
			return fmt.Errorf("remove stale artifact: %w", err)
		}

		if err := state.Cache.Drop(a.kind); err != nil {
			return err //nolint:wrapcheck
		}
	}

	logger.Info("Building " + string(a.kind))

	if err := build(ctx); err != nil {
		// Partial output must not be adopted by the next run.
		if rmErr := os.RemoveAll(a.path); rmErr != nil {
			err = errors.Join(err, fmt.Errorf("remove partial %s: %w", a.kind, rmErr))
		}

		return err
	}

	exists, err := files.Exists(a.path)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !exists {
		return fmt.Errorf("%s: %w", a.path, toolchain.ErrNoOutput)
	}

	if a.validate != nil {
		if err := a.validate(a.path); err != nil {
			return errors.Join(err, os.RemoveAll(a.path))
		}
	}

	if _, err := state.Cache.Commit(a.kind, a.path, a.key, state.BuildID); err != nil {
		return fmt.Errorf("record artifact: %w", err)
	}

	return nil
}

func (a artifact) reuse(state *State, status cache.Status, logger *slog.Logger) error {
	if status == cache.StatusUntracked {
		if _, err := state.Cache.Commit(a.kind, a.path, a.key, state.BuildID); err != nil {
			return fmt.Errorf("record artifact: %w", err)
		}
	}

	logger.Info(string(a.kind)+" already exists, skipping", slog.String("cache", status.String()))

	return nil
}
