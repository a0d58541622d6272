// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package executable_test

import (
	"debug/elf"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/virt-do/quark/internal/executable"
)

func TestMachineForTarget(t *testing.T) {
	tests := []struct {
		target      string
		expected    elf.Machine
		expectedErr error
	}{
		{target: "x86_64-unknown-linux-musl", expected: elf.EM_X86_64},
		{target: "aarch64-unknown-linux-musl", expected: elf.EM_AARCH64},
		{target: "riscv64gc-unknown-linux-musl", expected: elf.EM_RISCV},
		{target: "i686-unknown-linux-musl", expectedErr: executable.ErrArchNotSupported},
		{target: "", expectedErr: executable.ErrArchNotSupported},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			machine, err := executable.MachineForTarget(tt.target)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, machine)
		})
	}
}

func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name        string
		hdr         elf.FileHeader
		expectedErr error
	}{
		{
			name: "static executable",
			hdr: elf.FileHeader{
				OSABI:   elf.ELFOSABI_NONE,
				Machine: elf.EM_X86_64,
				Type:    elf.ET_EXEC,
			},
		},
		{
			name: "position independent executable",
			hdr: elf.FileHeader{
				OSABI:   elf.ELFOSABI_LINUX,
				Machine: elf.EM_X86_64,
				Type:    elf.ET_DYN,
			},
		},
		{
			name: "wrong OSABI",
			hdr: elf.FileHeader{
				OSABI:   elf.ELFOSABI_FREEBSD,
				Machine: elf.EM_X86_64,
				Type:    elf.ET_EXEC,
			},
			expectedErr: executable.ErrOSABINotSupported,
		},
		{
			name: "wrong machine",
			hdr: elf.FileHeader{
				OSABI:   elf.ELFOSABI_NONE,
				Machine: elf.EM_AARCH64,
				Type:    elf.ET_EXEC,
			},
			expectedErr: executable.ErrMachineNotSupported,
		},
		{
			name: "relocatable object",
			hdr: elf.FileHeader{
				OSABI:   elf.ELFOSABI_NONE,
				Machine: elf.EM_X86_64,
				Type:    elf.ET_REL,
			},
			expectedErr: executable.ErrNotExecutable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := executable.ValidateHeader(tt.hdr, elf.EM_X86_64)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestValidateStatic(t *testing.T) {
	tests := []struct {
		name        string
		content     []byte
		expectedErr error
	}{
		{
			name:    "static",
			content: executable.MinimalELF(elf.EM_X86_64, ""),
		},
		{
			name:        "dynamic",
			content:     executable.MinimalELF(elf.EM_X86_64, "/lib/ld-musl-x86_64.so.1"),
			expectedErr: executable.ErrNotStatic,
		},
		{
			name:        "other machine",
			content:     executable.MinimalELF(elf.EM_AARCH64, ""),
			expectedErr: executable.ErrMachineNotSupported,
		},
		{
			name:        "script",
			content:     []byte("#!/bin/sh\nexit 0\n"),
			expectedErr: executable.ErrNotELFFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "kaps")
			require.NoError(t, os.WriteFile(path, tt.content, 0o755))

			err := executable.ValidateStatic(path, elf.EM_X86_64)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestValidateStaticMissingFile(t *testing.T) {
	err := executable.ValidateStatic(filepath.Join(t.TempDir(), "kaps"), elf.EM_X86_64)
	require.ErrorIs(t, err, os.ErrNotExist)
}
