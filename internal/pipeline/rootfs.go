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

	"github.com/virt-do/quark/internal/archive"
	"github.com/virt-do/quark/internal/cache"
	"github.com/virt-do/quark/internal/files"
	"github.com/virt-do/quark/internal/guestinit"
	"github.com/virt-do/quark/internal/initramfs"
	"github.com/virt-do/quark/internal/quardle"
)

// RootfsArchive is a [Procedure] that creates the base root file system by
// extracting a local gzip compressed tar archive, like the Alpine mini root
// file system, into Dir.
type RootfsArchive struct {
	Archive string
	Dir     string
}

// Build extracts the archive. Dir must not exist.
func (r *RootfsArchive) Build(_ context.Context, _ ...string) (string, error) {
	if err := archive.ExtractAtomic(r.Archive, r.Dir); err != nil {
		return "", fmt.Errorf("extract rootfs: %w", err)
	}

	return r.Dir, nil
}

type rootfsStep struct {
	*Pipeline
}

func (*rootfsStep) Name() string {
	return "rootfs"
}

// key identifies everything the initramfs is built from: the kaps binary,
// the init binary, the bundle and the compression.
func (s *rootfsStep) key(state *State) (string, error) {
	kaps, err := state.Cache.Load(cache.KindKaps)
	if err != nil {
		return "", fmt.Errorf("kaps record: %w", err)
	}

	key := fmt.Sprintf("compression=%s kaps=%s", s.compression(), kaps.Checksum)

	if s.InitBinary != "" {
		initSum, err := cache.Checksum(s.InitBinary)
		if err != nil {
			return "", fmt.Errorf("init binary: %w", err)
		}

		key += " init=" + initSum
	}

	if state.Request.Offline {
		bundle, err := state.Cache.Load(cache.KindBundle)
		if err != nil {
			return "", fmt.Errorf("bundle record: %w", err)
		}

		key += " bundle=" + bundle.Checksum
	}

	return key, nil
}

func (s *rootfsStep) compression() initramfs.Compression {
	if s.Compression == "" {
		return initramfs.DefaultCompression
	}

	return s.Compression
}

func (s *rootfsStep) Run(ctx context.Context, state *State) error {
	key, err := s.key(state)
	if err != nil {
		return err
	}

	image := artifact{
		kind: cache.KindInitramfs,
		path: s.Layout.Initramfs,
		key:  key,
	}

	return image.ensure(ctx, state, func(ctx context.Context) error {
		return s.build(ctx, state)
	})
}

func (s *rootfsStep) build(ctx context.Context, state *State) error {
	if err := os.RemoveAll(s.Layout.Rootfs); err != nil {
		return fmt.Errorf("remove stale rootfs: %w", err)
	}

	dir, err := s.Rootfs.Build(ctx)
	if err != nil {
		return err //nolint:wrapcheck
	}

	state.Logger.Debug("Rootfs created", slog.String("output", dir))

	if err := s.populate(state.Request); err != nil {
		return err
	}

	state.Logger.Debug("Write initramfs", slog.String("compression", string(s.compression())))

	if err := initramfs.Build(ctx, s.Layout.Rootfs, s.Layout.Initramfs, s.compression()); err != nil {
		return fmt.Errorf("build initramfs: %w", err)
	}

	return nil
}

// populate installs kaps, the bundle and the init program into the rootfs.
func (s *rootfsStep) populate(request Request) error {
	rootfs := s.Layout.Rootfs
	guestPath := func(path string) string {
		return filepath.Join(rootfs, filepath.FromSlash(path))
	}

	if err := files.CopyFile(s.Layout.KapsBinary, guestPath(quardle.KapsPath), 0o755); err != nil {
		return fmt.Errorf("install kaps: %w", err)
	}

	var bundle string

	if request.Offline {
		bundle = "/" + quardle.BundleName

		if err := os.RemoveAll(guestPath(bundle)); err != nil {
			return fmt.Errorf("remove stale bundle copy: %w", err)
		}

		if err := files.CopyTree(s.Layout.Bundle, guestPath(bundle)); err != nil {
			return fmt.Errorf("install bundle: %w", err)
		}
	}

	if s.InitBinary != "" {
		return s.installInitBinary(rootfs, bundle)
	}

	script := initramfs.InitScript{
		Runtime: quardle.KapsPath,
		Bundle:  bundle,
	}

	if err := initramfs.WriteInit(rootfs, script); err != nil {
		return fmt.Errorf("install init: %w", err)
	}

	return nil
}

// installInitBinary installs the init binary as [initramfs.InitPath] along
// with its configuration.
func (s *rootfsStep) installInitBinary(rootfs, bundle string) error {
	initPath := filepath.Join(rootfs, initramfs.InitPath)
	if err := files.CopyFile(s.InitBinary, initPath, 0o755); err != nil {
		return fmt.Errorf("install init: %w", err)
	}

	configPath := filepath.Join(rootfs, filepath.FromSlash(guestinit.ConfigPath))
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create init config directory: %w", err)
	}

	cfg := guestinit.Config{
		Runtime: quardle.KapsPath,
		Bundle:  bundle,
	}

	return cfg.WriteFile(configPath) //nolint:wrapcheck
}
