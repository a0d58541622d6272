// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quardle

// Member names in the archive and paths in the guest.
const (
	ManifestName  = "quark.json"
	KernelName    = "vmlinux.bin"
	InitramfsName = "initramfs.img"
	BundleName    = "ctr-bundle"

	// KapsPath is the path of the container runtime in the guest.
	KapsPath = "/opt/kaps"
	// BundlePath is the path of the embedded bundle in the guest.
	BundlePath = "/" + BundleName + "/"
)

// Extension is the file name extension of quardle archives.
const Extension = ".qrk"

// FileName returns the archive file name for the quardle with the given
// name.
func FileName(name string) string {
	return name + Extension
}
