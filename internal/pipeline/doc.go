// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pipeline assembles quardles.
//
// A [Pipeline] runs an ordered list of steps in a staging directory: build
// the kaps container runtime, build the kernel, fetch the container bundle
// (offline quardles only), build the root file system and its initramfs,
// write the manifest and pack the archive. Finally the request specific
// intermediates are removed from the staging directory.
//
// Every step skips its work if its artifact is already present and matches
// its cache record, so running the same request twice does not invoke any
// external tool the second time as long as the staging directory is kept.
// Steps run strictly one after another. The only concurrency is in the
// [toolchain.Runner] draining the output of a single child process.
package pipeline
