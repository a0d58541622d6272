// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package files provides the file system primitives the build steps share.
//
// Artifacts are only ever published by renaming a completely written
// temporary file or directory into place, so every well-known path is either
// absent or complete. Use [CreateAtomic] and [WriteFileAtomic] for that.
package files
