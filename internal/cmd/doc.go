// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the CLI entry point for quark. It handles flag
// parsing, configuration, logging and the mapping of errors to exit codes.
package cmd
