// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quardle

import (
	"bytes"
	"fmt"
	"os"

	"github.com/virt-do/quark/internal/archive"
)

// Inspect returns the manifest of the quardle archive at archivePath
// without extracting it.
func Inspect(archivePath string) (Manifest, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return Manifest{}, fmt.Errorf("inspect: %w", err)
	}
	defer file.Close()

	data, err := archive.ReadMember(file, ManifestName)
	if err != nil {
		return Manifest{}, fmt.Errorf("inspect: %w", err)
	}

	return DecodeManifest(bytes.NewReader(data))
}

// Contents returns all members of the quardle archive at archivePath.
func Contents(archivePath string) ([]archive.Member, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("contents: %w", err)
	}
	defer file.Close()

	members, err := archive.List(file)
	if err != nil {
		return nil, fmt.Errorf("contents: %w", err)
	}

	return members, nil
}
