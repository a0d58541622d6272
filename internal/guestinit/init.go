// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestinit

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// LoopbackInterface is the name of the loopback network interface.
const LoopbackInterface = "lo"

// Config configures the init program.
type Config struct {
	// Runtime is the path of the container runtime binary.
	Runtime string `toml:"runtime"`
	// Bundle is the path of the container bundle. If empty, the runtime is
	// started without bundle.
	Bundle string `toml:"bundle,omitempty"`
	// MountPoints are mounted before the runtime is started. If nil,
	// [EssentialMountPoints] are used.
	MountPoints MountPoints `toml:"-"`
}

// RuntimeArgs returns the argument vector the runtime is executed with.
func (c Config) RuntimeArgs() []string {
	args := []string{c.Runtime, "run"}
	if c.Bundle != "" {
		args = append(args, "--bundle", c.Bundle)
	}

	return args
}

// Run prepares the guest and replaces the current process with the
// container runtime. It only returns on error.
func (s System) Run(cfg Config) error {
	if s.Getpid() != 1 {
		return ErrNotPidOne
	}

	if cfg.Runtime == "" {
		return ErrNoRuntime
	}

	mountPoints := cfg.MountPoints
	if mountPoints == nil {
		mountPoints = EssentialMountPoints()
	}

	err := s.MountAll(mountPoints)
	if err != nil {
		var optionalErrs OptionalMountError
		if !errors.As(err, &optionalErrs) {
			return err
		}

		for _, err := range optionalErrs {
			slog.Warn("Optional mount failed", slog.String("error", err.Error()))
		}
	}

	if err := s.LinkUp(LoopbackInterface); err != nil {
		return err
	}

	args := cfg.RuntimeArgs()
	slog.Debug("Exec runtime", slog.Any("args", args))

	if err := s.Exec(args[0], args, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", args[0], err)
	}

	return nil
}
