// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/virt-do/quark/internal/initramfs"
	"github.com/virt-do/quark/internal/pipeline"
	"github.com/virt-do/quark/internal/staging"
)

// DefaultConfigFile is read if no config file is given explicitly.
const DefaultConfigFile = "quark.toml"

// KapsConfig configures where the kaps runtime is built from.
type KapsConfig struct {
	Repository string `toml:"repository"`
	Ref        string `toml:"ref"`
	Target     string `toml:"target"`
}

// ScriptsConfig holds the paths of the build scripts. Relative paths are
// relative to the current working directory.
type ScriptsConfig struct {
	Kernel string `toml:"kernel"`
	Bundle string `toml:"bundle"`
	Rootfs string `toml:"rootfs"`
}

// Config is the build configuration. It is read from a TOML file. Flags
// override the values.
type Config struct {
	// Workdir is the staging directory.
	Workdir string `toml:"workdir"`
	// Output is the directory the quardle archive is written to.
	Output      string                `toml:"output"`
	KeepStaging bool                  `toml:"keep_staging"`
	Compression initramfs.Compression `toml:"compression"`
	// RootfsArchive is a local gzip compressed tarball that is used as base
	// root file system instead of running the rootfs script.
	RootfsArchive string `toml:"rootfs_archive"`
	// InitBinary is a static quark-init binary that is installed as guest
	// init instead of the init shell script.
	InitBinary string        `toml:"init_binary"`
	Kaps       KapsConfig    `toml:"kaps"`
	Scripts    ScriptsConfig `toml:"scripts"`
}

// DefaultConfig returns the configuration used if no config file exists.
func DefaultConfig() Config {
	return Config{
		Workdir:     ".",
		Output:      ".",
		Compression: initramfs.DefaultCompression,
		Kaps: KapsConfig{
			Repository: pipeline.DefaultKapsRepository,
			Ref:        pipeline.DefaultKapsRef,
			Target:     staging.DefaultKapsTarget,
		},
		Scripts: ScriptsConfig{
			Kernel: "kernel/mkkernel.sh",
			Bundle: "scripts/mkbundle.sh",
			Rootfs: "scripts/mkrootfs.sh",
		},
	}
}

// LoadConfig reads the config file at path on top of [DefaultConfig]. If
// required is false, a missing file is not an error.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		// A non-existing config isn't an error, use defaults in this case.
		if !required && errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Configuration file not found, using defaults",
				slog.String("path", path))

			return cfg, nil
		}

		return Config{}, &ConfigError{Path: path, Err: err}
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, &ConfigError{
			Path: path,
			Err:  fmt.Errorf("%w: unknown keys %v", ErrInvalidConfig, undecoded),
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, &ConfigError{Path: path, Err: err}
	}

	return cfg, nil
}

// Validate checks that all required values are set.
func (c Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"workdir", c.Workdir},
		{"output", c.Output},
		{"kaps.repository", c.Kaps.Repository},
		{"kaps.ref", c.Kaps.Ref},
		{"kaps.target", c.Kaps.Target},
		{"scripts.kernel", c.Scripts.Kernel},
		{"scripts.bundle", c.Scripts.Bundle},
	}

	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidConfig, field.name)
		}
	}

	if c.Scripts.Rootfs == "" && c.RootfsArchive == "" {
		return fmt.Errorf("%w: neither scripts.rootfs nor rootfs_archive set", ErrInvalidConfig)
	}

	if _, err := initramfs.ParseCompression(string(c.Compression)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path %s: %w", path, err)
	}

	return abs, nil
}
