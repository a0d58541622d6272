// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package guestinit implements the init program of a quardle guest in Go.
//
// It does the same as the init shell script the pipeline installs: mount the
// pseudo file systems, bring up the loopback interface and replace itself
// with the container runtime. It is meant for root file systems that do not
// ship a shell.
//
// [Run] must be called by a process running as PID 1 in the guest.
package guestinit
