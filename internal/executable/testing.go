// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package executable

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
)

const (
	elfHeaderSize  = 64
	progHeaderSize = 56
)

// MinimalELF returns the content of a 64 bit little endian ELF executable
// without sections for the given machine. If interp is not empty, a program
// header requesting it as interpreter is added.
func MinimalELF(machine elf.Machine, interp string) []byte {
	hdr := elf.Header64{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(machine),
		Version:   uint32(elf.EV_CURRENT),
		Ehsize:    elfHeaderSize,
		Phentsize: progHeaderSize,
		Shentsize: 64,
	}

	copy(hdr.Ident[:], elf.ELFMAG)
	hdr.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	hdr.Ident[elf.EI_OSABI] = byte(elf.ELFOSABI_NONE)

	var prog *elf.Prog64

	if interp != "" {
		hdr.Phoff = elfHeaderSize
		hdr.Phnum = 1

		size := uint64(len(interp) + 1)
		prog = &elf.Prog64{
			Type:   uint32(elf.PT_INTERP),
			Flags:  uint32(elf.PF_R),
			Off:    elfHeaderSize + progHeaderSize,
			Filesz: size,
			Memsz:  size,
			Align:  1,
		}
	}

	var buf bytes.Buffer

	_ = binary.Write(&buf, binary.LittleEndian, hdr)

	if prog != nil {
		_ = binary.Write(&buf, binary.LittleEndian, prog)
		buf.WriteString(interp)
		buf.WriteByte(0)
	}

	return buf.Bytes()
}
