// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
)

// InitPath is the path of the init program inside the initramfs.
const InitPath = "init"

var initTemplate = template.Must(template.New("init").Parse(`#!/bin/sh
mount -t devtmpfs dev /dev
mount -t proc proc /proc
mount -t sysfs sysfs /sys
ip link set up dev lo

exec {{ .Runtime }} run{{ with .Bundle }} --bundle {{ . }}{{ end }}
`))

// InitScript is the shell script the kernel runs as PID 1. It prepares the
// pseudo file systems and the loopback interface and then replaces itself
// with the container runtime.
type InitScript struct {
	// Runtime is the absolute path of the runtime binary in the guest.
	Runtime string
	// Bundle is the absolute path of the container bundle in the guest. If
	// empty, the runtime is started without bundle.
	Bundle string
}

// Render writes the script to w.
func (s InitScript) Render(w io.Writer) error {
	if err := initTemplate.Execute(w, s); err != nil {
		return fmt.Errorf("render init script: %w", err)
	}

	return nil
}

// WriteInit writes the script as executable [InitPath] into the root file
// system directory rootDir. An existing file is replaced.
func WriteInit(rootDir string, script InitScript) error {
	var buf bytes.Buffer
	if err := script.Render(&buf); err != nil {
		return err
	}

	path := filepath.Join(rootDir, InitPath)

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing init: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o755); err != nil {
		return fmt.Errorf("write init: %w", err)
	}

	if err := os.Chmod(path, 0o755); err != nil {
		return fmt.Errorf("chmod init: %w", err)
	}

	return nil
}
