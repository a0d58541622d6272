// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package staging defines the well-known paths of the staging directory the
// build pipeline works in.
package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Relative paths of the artifacts in the staging directory.
const (
	KapsSourceDir = "kaps"
	KernelFile    = "linux-cloud-hypervisor/arch/x86/boot/compressed/vmlinux.bin"
	RootfsDir     = "alpine-minirootfs"
	BundleDir     = "ctr-bundle"
	InitramfsFile = "initramfs.img"
	ManifestFile  = "quark.json"
	CacheDir      = ".quark/cache"
)

// DefaultKapsTarget is the target triple kaps is built for.
const DefaultKapsTarget = "x86_64-unknown-linux-musl"

// Layout holds the absolute paths of all artifacts in a staging directory.
type Layout struct {
	Root       string
	KapsSource string
	KapsBinary string
	Kernel     string
	Rootfs     string
	Bundle     string
	Initramfs  string
	Manifest   string
	Cache      string
}

// NewLayout returns the [Layout] for the staging directory root. kapsTarget
// is the target triple the kaps binary is built for. If empty,
// [DefaultKapsTarget] is used.
func NewLayout(root, kapsTarget string) (Layout, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("staging directory: %w", err)
	}

	if kapsTarget == "" {
		kapsTarget = DefaultKapsTarget
	}

	path := func(rel string) string {
		return filepath.Join(root, filepath.FromSlash(rel))
	}

	return Layout{
		Root:       root,
		KapsSource: path(KapsSourceDir),
		KapsBinary: path(KapsSourceDir + "/target/" + kapsTarget + "/release/kaps"),
		Kernel:     path(KernelFile),
		Rootfs:     path(RootfsDir),
		Bundle:     path(BundleDir),
		Initramfs:  path(InitramfsFile),
		Manifest:   path(ManifestFile),
		Cache:      path(CacheDir),
	}, nil
}

// Intermediates returns the paths of the artifacts that are only needed to
// assemble a single quardle. Unlike the kaps binary and the kernel, they
// depend on the build request.
func (l Layout) Intermediates() []string {
	return []string{
		l.Rootfs,
		l.Bundle,
		l.Initramfs,
		l.Manifest,
	}
}

// RemoveIntermediates removes all [Layout.Intermediates]. It tries to remove
// all of them and returns all errors that occurred.
func (l Layout) RemoveIntermediates() error {
	var errs []error

	for _, path := range l.Intermediates() {
		if err := os.RemoveAll(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
		}
	}

	return errors.Join(errs...)
}
