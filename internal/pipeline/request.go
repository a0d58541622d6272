// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline

import (
	"fmt"
	"strings"
)

// Defaults for build requests.
const (
	DefaultImage         = "https://dl-cdn.alpinelinux.org/alpine/v3.14/releases/x86_64/alpine-minirootfs-3.14.2-x86_64.tar.gz"
	DefaultKernelCmdline = "console=ttyS0 i8042.nokbd reboot=k panic=1 pci=off"
)

// Request describes the quardle to build.
type Request struct {
	// Name of the quardle. The archive is named after it.
	Name string
	// Image is the container image the quardle runs.
	Image string
	// Offline quardles embed the container bundle. Online quardles leave
	// fetching the image to kaps at runtime.
	Offline       bool
	KernelCmdline string
}

// Validate checks that the request can be built.
func (r Request) Validate() error {
	switch {
	case r.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidRequest)
	case r.Name == "." || r.Name == ".." || strings.ContainsAny(r.Name, `/\`):
		return fmt.Errorf("%w: name must not be a path: %s", ErrInvalidRequest, r.Name)
	case r.Image == "":
		return fmt.Errorf("%w: empty image", ErrInvalidRequest)
	}

	return nil
}
