// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package executable

import "errors"

var (
	// ErrArchNotSupported is returned for target triples of unsupported
	// architectures.
	ErrArchNotSupported = errors.New("architecture not supported")

	ErrOSABINotSupported   = errors.New("OSABI not supported")
	ErrMachineNotSupported = errors.New("machine not supported")

	// ErrNotELFFile is returned if the file does not have an ELF magic number.
	ErrNotELFFile = errors.New("is not an ELF file")

	// ErrNotExecutable is returned for ELF files that are neither executables
	// nor position independent executables.
	ErrNotExecutable = errors.New("is not an executable")

	// ErrNotStatic is returned if an ELF executable requests an interpreter.
	ErrNotStatic = errors.New("is not statically linked")
)
