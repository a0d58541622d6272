// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package initramfs builds compressed initramfs archives from a root file
// system directory.
//
// The directory tree is serialized as "newc" cpio archive with every entry
// owned by root and without timestamps, so equal trees result in equal
// archives. The archive stream is compressed with one of the formats the
// Linux kernel can unpack, see [Compression].
package initramfs
