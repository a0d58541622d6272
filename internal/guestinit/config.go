// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestinit

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/virt-do/quark/internal/files"
	"github.com/virt-do/quark/internal/quardle"
)

// ConfigPath is the path of the init configuration in the guest. The build
// pipeline writes it along with the init binary.
const ConfigPath = "/etc/quark/init.toml"

// DefaultConfig returns the configuration used if there is no configuration
// file.
func DefaultConfig() Config {
	return Config{
		Runtime: quardle.KapsPath,
	}
}

// LoadConfig reads the configuration file at path. A missing file results
// in [DefaultConfig].
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}

		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: %s: unknown keys %v", ErrInvalidConfig, path, undecoded)
	}

	return cfg, nil
}

// WriteFile writes the configuration atomically to path.
func (c Config) WriteFile(path string) error {
	var buf bytes.Buffer

	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode init config: %w", err)
	}

	if err := files.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write init config: %w", err)
	}

	return nil
}
