// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package archive reads and writes gzip compressed tar archives.
//
// Extraction is confined to the target directory: entries with absolute
// paths or paths leaving the target directory are rejected with
// [ErrInsecurePath], and all file system operations go through an
// [os.Root], so symbolic links in the archive can not be used to write
// outside of it.
package archive
