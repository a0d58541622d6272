// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache records completed build artifacts in the staging directory.
//
// For each artifact kind a [Record] with the BLAKE3 checksum of the artifact
// is stored next to the artifacts. A build step uses [Store.Check] to decide
// whether its artifact can be reused, must be rebuilt or was left by a
// previous run without record.
package cache
