// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package executable validates ELF executables that are installed into a
// guest, like the kaps container runtime.
package executable
