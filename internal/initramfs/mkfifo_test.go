// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs_test

import "golang.org/x/sys/unix"

func mkfifo(path string) error {
	return unix.Mkfifo(path, 0o600)
}
