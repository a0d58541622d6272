// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quardle

import (
	"fmt"

	"github.com/virt-do/quark/internal/archive"
	"github.com/virt-do/quark/internal/files"
)

// Unpack extracts the quardle archive at archivePath into outputDir.
//
// If outputDir already exists, nothing is done and false is returned.
// Otherwise the archive is extracted into a temporary directory that is
// renamed to outputDir once complete.
func Unpack(archivePath, outputDir string) (bool, error) {
	exists, err := files.Exists(outputDir)
	if err != nil {
		return false, fmt.Errorf("unpack: %w", err)
	}

	if exists {
		return false, nil
	}

	if err := archive.ExtractAtomic(archivePath, outputDir); err != nil {
		return false, fmt.Errorf("unpack: %w", err)
	}

	return true, nil
}
