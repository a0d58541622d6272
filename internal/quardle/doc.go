// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package quardle defines the quardle artifact: a gzip compressed tar
// archive holding the manifest [ManifestName], the kernel [KernelName], the
// initramfs [InitramfsName] and, for offline quardles, the container bundle
// [BundleName].
//
// A quardle is created with [Pack] and consumed with [Unpack] or [Inspect].
package quardle
