// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive_test

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/virt-do/quark/internal/archive"
)

// rawArchive creates a gzip compressed tar archive with the given headers.
// Regular file headers get their name as content.
func rawArchive(t *testing.T, headers ...*tar.Header) []byte {
	t.Helper()

	var buf bytes.Buffer

	gzipWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, header := range headers {
		var body []byte
		if header.Typeflag == tar.TypeReg {
			body = []byte(header.Name)
			header.Size = int64(len(body))
		}

		require.NoError(t, tarWriter.WriteHeader(header))

		_, err := tarWriter.Write(body)
		require.NoError(t, err)
	}

	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzipWriter.Close())

	return buf.Bytes()
}

func makeSource(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "quark.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vmlinux.bin"), []byte("kernel"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ctr-bundle", "rootfs", "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ctr-bundle", "config.json"), []byte("oci"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ctr-bundle", "rootfs", "bin", "busybox"), []byte("bb"), 0o755))
	require.NoError(t, os.Symlink("/bin/busybox", filepath.Join(dir, "ctr-bundle", "rootfs", "bin", "sh")))

	return dir
}

func writeArchive(t *testing.T, src string) []byte {
	t.Helper()

	var buf bytes.Buffer

	writer := archive.NewWriter(&buf)
	require.NoError(t, writer.AddFile("quark.json", filepath.Join(src, "quark.json")))
	require.NoError(t, writer.AddFile("vmlinux.bin", filepath.Join(src, "vmlinux.bin")))
	require.NoError(t, writer.AddTree("ctr-bundle", filepath.Join(src, "ctr-bundle")))
	require.NoError(t, writer.Close())

	return buf.Bytes()
}

func TestWriterList(t *testing.T) {
	data := writeArchive(t, makeSource(t))

	members, err := archive.List(bytes.NewReader(data))
	require.NoError(t, err)

	names := make([]string, 0, len(members))
	for _, member := range members {
		names = append(names, member.Name)
	}

	expected := []string{
		"quark.json",
		"vmlinux.bin",
		"ctr-bundle/",
		"ctr-bundle/config.json",
		"ctr-bundle/rootfs/",
		"ctr-bundle/rootfs/bin/",
		"ctr-bundle/rootfs/bin/busybox",
		"ctr-bundle/rootfs/bin/sh",
	}
	assert.Equal(t, expected, names)
	assert.Equal(t, "/bin/busybox", members[7].Link)
	assert.EqualValues(t, 6, members[1].Size)
}

func TestWriterAddFileNotRegular(t *testing.T) {
	writer := archive.NewWriter(&bytes.Buffer{})

	err := writer.AddFile("dir", t.TempDir())
	require.ErrorIs(t, err, archive.ErrUnsupportedEntry)
}

func TestExtract(t *testing.T) {
	data := writeArchive(t, makeSource(t))
	dir := t.TempDir()

	require.NoError(t, archive.Extract(bytes.NewReader(data), dir))

	content, err := os.ReadFile(filepath.Join(dir, "vmlinux.bin"))
	require.NoError(t, err)
	assert.Equal(t, "kernel", string(content))

	info, err := os.Stat(filepath.Join(dir, "ctr-bundle", "rootfs", "bin", "busybox"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	link, err := os.Readlink(filepath.Join(dir, "ctr-bundle", "rootfs", "bin", "sh"))
	require.NoError(t, err)
	assert.Equal(t, "/bin/busybox", link)
}

func TestExtractInsecure(t *testing.T) {
	tests := []struct {
		name        string
		headers     []*tar.Header
		expectedErr error
	}{
		{
			name: "parent traversal",
			headers: []*tar.Header{
				{Name: "../evil", Typeflag: tar.TypeReg, Mode: 0o644},
			},
			expectedErr: archive.ErrInsecurePath,
		},
		{
			name: "nested parent traversal",
			headers: []*tar.Header{
				{Name: "a/../../evil", Typeflag: tar.TypeReg, Mode: 0o644},
			},
			expectedErr: archive.ErrInsecurePath,
		},
		{
			name: "absolute",
			headers: []*tar.Header{
				{Name: "/etc/evil", Typeflag: tar.TypeReg, Mode: 0o644},
			},
			expectedErr: archive.ErrInsecurePath,
		},
		{
			name: "hard link outside",
			headers: []*tar.Header{
				{Name: "passwd", Typeflag: tar.TypeLink, Linkname: "../../etc/passwd"},
			},
			expectedErr: archive.ErrInsecurePath,
		},
		{
			name: "device",
			headers: []*tar.Header{
				{Name: "console", Typeflag: tar.TypeChar, Mode: 0o600},
			},
			expectedErr: archive.ErrUnsupportedEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			data := rawArchive(t, tt.headers...)

			err := archive.Extract(bytes.NewReader(data), dir)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestExtractSymlinkEscape(t *testing.T) {
	outside := t.TempDir()
	dir := t.TempDir()

	data := rawArchive(t,
		&tar.Header{Name: "escape", Typeflag: tar.TypeSymlink, Linkname: outside},
		&tar.Header{Name: "escape/evil", Typeflag: tar.TypeReg, Mode: 0o644},
	)

	err := archive.Extract(bytes.NewReader(data), dir)
	require.Error(t, err)

	assert.NoFileExists(t, filepath.Join(outside, "evil"))
}

func TestReadMember(t *testing.T) {
	data := writeArchive(t, makeSource(t))

	content, err := archive.ReadMember(bytes.NewReader(data), "quark.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(content))

	content, err = archive.ReadMember(bytes.NewReader(data), "./ctr-bundle/config.json")
	require.NoError(t, err)
	assert.Equal(t, "oci", string(content))

	_, err = archive.ReadMember(bytes.NewReader(data), "initramfs.img")
	require.ErrorIs(t, err, archive.ErrMemberNotFound)

	_, err = archive.ReadMember(bytes.NewReader(data), "ctr-bundle")
	require.ErrorIs(t, err, archive.ErrMemberNotFound, "directories are no regular members")
}

func TestExtractAtomic(t *testing.T) {
	src := makeSource(t)
	archivePath := filepath.Join(t.TempDir(), "demo.qrk")
	require.NoError(t, os.WriteFile(archivePath, writeArchive(t, src), 0o644))

	t.Run("success", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out", "demo")

		require.NoError(t, archive.ExtractAtomic(archivePath, dir))
		assert.FileExists(t, filepath.Join(dir, "quark.json"))
		assert.DirExists(t, filepath.Join(dir, "ctr-bundle", "rootfs"))
	})

	t.Run("exists", func(t *testing.T) {
		dir := t.TempDir()

		err := archive.ExtractAtomic(archivePath, dir)
		require.ErrorIs(t, err, archive.ErrExist)
	})

	t.Run("corrupt", func(t *testing.T) {
		corrupt := filepath.Join(t.TempDir(), "corrupt.qrk")
		data := writeArchive(t, src)
		require.NoError(t, os.WriteFile(corrupt, data[:len(data)/2], 0o644))

		parent := t.TempDir()
		dir := filepath.Join(parent, "demo")

		require.Error(t, archive.ExtractAtomic(corrupt, dir))

		entries, err := os.ReadDir(parent)
		require.NoError(t, err)
		assert.Empty(t, entries, "no partial output must remain")
	})

	t.Run("missing archive", func(t *testing.T) {
		err := archive.ExtractAtomic(filepath.Join(t.TempDir(), "missing.qrk"), filepath.Join(t.TempDir(), "demo"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
