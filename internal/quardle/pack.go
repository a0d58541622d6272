// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quardle

import (
	"fmt"

	"github.com/virt-do/quark/internal/archive"
	"github.com/virt-do/quark/internal/files"
)

// Inputs are the staged files a quardle is packed from.
type Inputs struct {
	Manifest  string
	Kernel    string
	Initramfs string
	// Bundle is the bundle directory. It must be set for offline quardles
	// only.
	Bundle string
}

// Pack writes the quardle archive to path. Members are written in the order
// manifest, kernel, initramfs and bundle tree.
//
// The archive is written to a temporary file next to path that is renamed
// once complete, so there is never a truncated archive at path.
func Pack(path string, inputs Inputs) error {
	manifest, err := ReadManifest(inputs.Manifest)
	if err != nil {
		return err
	}

	if manifest.Offline != (inputs.Bundle != "") {
		return &ManifestError{Op: "pack", Err: ErrBundleMismatch}
	}

	file, err := files.CreateAtomic(path, 0o644)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer file.Abort()

	writer := archive.NewWriter(file)

	members := []struct {
		name string
		path string
	}{
		{ManifestName, inputs.Manifest},
		{KernelName, inputs.Kernel},
		{InitramfsName, inputs.Initramfs},
	}

	for _, member := range members {
		if err := writer.AddFile(member.name, member.path); err != nil {
			return fmt.Errorf("pack: %w", err)
		}
	}

	if inputs.Bundle != "" {
		if err := writer.AddTree(BundleName, inputs.Bundle); err != nil {
			return fmt.Errorf("pack: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	return file.Commit()
}
