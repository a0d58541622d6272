// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package toolchain runs the external programs the build pipeline depends
// on: git, cargo and opaque build scripts.
//
// All programs run synchronously through a [Runner]. Their output is streamed
// line by line to the logger as it arrives, so long running builds stay
// observable.
package toolchain
