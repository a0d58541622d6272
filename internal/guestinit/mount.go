// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestinit

import (
	"fmt"
)

// FSType is a file system type.
type FSType string

// Pseudo file system types mounted by the guest init.
const (
	FSTypeCgroup2 FSType = "cgroup2"
	FSTypeDevPts  FSType = "devpts"
	FSTypeDevTmp  FSType = "devtmpfs"
	FSTypeProc    FSType = "proc"
	FSTypeSys     FSType = "sysfs"

	defaultDirMode = 0o755
)

// MountOptions contains parameters for a mount point.
type MountOptions struct {
	FSType FSType

	// Source is the source device to mount. If empty it is set to the string
	// of the type.
	Source string

	// MayFail determines if the mount operation may fail. If set to true, a
	// mount error does not fail a [System.MountAll] operation.
	MayFail bool
}

// MountPoints is a collection of mount points by path.
type MountPoints map[string]MountOptions

// EssentialMountPoints returns the file systems the container runtime needs:
// devices, process information and sysfs. cgroups and pseudo terminals are
// mounted if the kernel supports them.
func EssentialMountPoints() MountPoints {
	return MountPoints{
		"/dev":           {FSType: FSTypeDevTmp, Source: "dev"},
		"/dev/pts":       {FSType: FSTypeDevPts, MayFail: true},
		"/proc":          {FSType: FSTypeProc},
		"/sys":           {FSType: FSTypeSys},
		"/sys/fs/cgroup": {FSType: FSTypeCgroup2, MayFail: true},
	}
}

// Mount mounts the file system at the given path. If path does not exist,
// it is created.
func (s System) Mount(path string, opts MountOptions) error {
	if err := s.MkdirAll(path, defaultDirMode); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}

	source := opts.Source
	if source == "" {
		source = string(opts.FSType)
	}

	if err := s.MountFn(source, path, string(opts.FSType), 0, ""); err != nil {
		return fmt.Errorf("mount %s: %w", path, err)
	}

	return nil
}

// MountAll mounts the given mount points in lexicographic order of the
// paths, so parents are mounted before their children. If only optional
// mount points failed, it returns an [OptionalMountError] with all errors.
func (s System) MountAll(mountPoints MountPoints) error {
	var optionalErrs OptionalMountError

	for path, opts := range sortedMap(mountPoints) {
		if err := s.Mount(path, opts); err != nil {
			if !opts.MayFail {
				return err
			}

			optionalErrs = append(optionalErrs, err)
		}
	}

	if optionalErrs != nil {
		return optionalErrs
	}

	return nil
}
