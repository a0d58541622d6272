// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quardle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/virt-do/quark/internal/files"
)

// Manifest describes how to boot a quardle and run its container. It is
// stored as [ManifestName] in the archive.
type Manifest struct {
	Quardle       string  `json:"quardle"        yaml:"quardle"`
	Kernel        string  `json:"kernel"         yaml:"kernel"`
	Initramfs     string  `json:"initramfs"      yaml:"initramfs"`
	KernelCmdline string  `json:"kernel_cmdline" yaml:"kernel_cmdline"`
	Image         string  `json:"image"          yaml:"image"`
	Kaps          string  `json:"kaps"           yaml:"kaps"`
	Offline       bool    `json:"offline"        yaml:"offline"`
	Bundle        *string `json:"bundle"         yaml:"bundle"`
}

// NewManifest returns the manifest for a quardle built with the given
// parameters. The bundle path is only set for offline quardles.
func NewManifest(name, image, kernelCmdline string, offline bool) Manifest {
	manifest := Manifest{
		Quardle:       name,
		Kernel:        KernelName,
		Initramfs:     InitramfsName,
		KernelCmdline: kernelCmdline,
		Image:         image,
		Kaps:          KapsPath,
		Offline:       offline,
	}

	if offline {
		bundle := BundlePath
		manifest.Bundle = &bundle
	}

	return manifest
}

// Validate checks the manifest invariants.
func (m Manifest) Validate() error {
	if m.Quardle == "" {
		return &ManifestError{Op: "validate", Err: ErrEmptyName}
	}

	if m.Offline != (m.Bundle != nil) {
		return &ManifestError{Op: "validate", Err: ErrBundleMismatch}
	}

	return nil
}

// Encode returns the manifest as JSON indented with two spaces.
func (m Manifest) Encode() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, &ManifestError{Op: "encode", Err: err}
	}

	return data, nil
}

// WriteFile writes the encoded manifest atomically to path.
func (m Manifest) WriteFile(path string) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}

	if err := files.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// DecodeManifest decodes and validates a manifest. Unknown fields are
// rejected.
func DecodeManifest(r io.Reader) (Manifest, error) {
	var manifest Manifest

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&manifest); err != nil {
		return Manifest{}, &ManifestError{Op: "decode", Err: err}
	}

	if err := manifest.Validate(); err != nil {
		return Manifest{}, err
	}

	return manifest, nil
}

// ReadManifest reads the manifest file at path.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	return DecodeManifest(bytes.NewReader(data))
}
