// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
)

var (
	// ErrReadBuildInfo is returned if the build info of the binary can not
	// be read.
	ErrReadBuildInfo = errors.New("failed to read build info")

	// ErrUnknownFormat is returned for unsupported output formats.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrInvalidConfig is returned if the configuration is incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ConfigError wraps errors that occur while reading the configuration file.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Is(other error) bool {
	_, ok := other.(*ConfigError)
	return ok
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// usageError wraps errors caused by invalid arguments or flags.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Is(other error) bool {
	_, ok := other.(*usageError)
	return ok
}

func (e *usageError) Unwrap() error {
	return e.err
}
