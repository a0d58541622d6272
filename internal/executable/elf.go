// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package executable

import (
	"debug/elf"
	"errors"
	"fmt"
	"strings"
)

// MachineForTarget returns the ELF machine of the architecture of the given
// target triple, like "x86_64-unknown-linux-musl".
func MachineForTarget(target string) (elf.Machine, error) {
	arch, _, _ := strings.Cut(target, "-")

	switch {
	case arch == "x86_64":
		return elf.EM_X86_64, nil
	case arch == "aarch64":
		return elf.EM_AARCH64, nil
	case strings.HasPrefix(arch, "riscv64"):
		return elf.EM_RISCV, nil
	default:
		return elf.EM_NONE, fmt.Errorf("%w: %s", ErrArchNotSupported, target)
	}
}

// ValidateHeader validates that ELF attributes match the requested machine.
func ValidateHeader(hdr elf.FileHeader, machine elf.Machine) error {
	switch hdr.OSABI {
	case elf.ELFOSABI_NONE, elf.ELFOSABI_LINUX:
		// supported, pass
	default:
		return fmt.Errorf("%w: %s", ErrOSABINotSupported, hdr.OSABI)
	}

	if hdr.Machine != machine {
		return fmt.Errorf(
			"%w: %s, want %s",
			ErrMachineNotSupported,
			hdr.Machine,
			machine,
		)
	}

	switch hdr.Type {
	case elf.ET_EXEC, elf.ET_DYN:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrNotExecutable, hdr.Type)
	}
}

// ValidateStatic validates that the file at path is a statically linked ELF
// executable for the given machine. The guest root file system does not
// necessarily ship the dynamic loader a binary was linked against.
func ValidateStatic(path string, machine elf.Machine) error {
	file, err := elf.Open(path)
	if err != nil {
		var formatErr *elf.FormatError
		if errors.As(err, &formatErr) {
			return fmt.Errorf("%s %w: %w", path, ErrNotELFFile, err)
		}

		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := ValidateHeader(file.FileHeader, machine); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for _, prog := range file.Progs {
		if prog.Type == elf.PT_INTERP {
			return fmt.Errorf("%s %w", path, ErrNotStatic)
		}
	}

	return nil
}
