// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestinit

import (
	"fmt"
	"os"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// System holds the system calls the init program depends on.
type System struct {
	Getpid   func() int
	MkdirAll func(path string, perm os.FileMode) error
	MountFn  func(source, target, fstype string, flags uintptr, data string) error
	LinkUp   func(name string) error
	Exec     func(argv0 string, argv []string, envv []string) error
}

// HostSystem returns the [System] backed by the actual system calls.
func HostSystem() System {
	return System{
		Getpid:   os.Getpid,
		MkdirAll: os.MkdirAll,
		MountFn:  unix.Mount,
		LinkUp:   linkUp,
		Exec:     unix.Exec,
	}
}

// linkUp sets the network interface with the given name up.
func linkUp(name string) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("find link %s: %w", name, err)
	}

	if err := netlink.LinkSetUp(link); err != nil {
		return fmt.Errorf("set link %s up: %w", name, err)
	}

	return nil
}
