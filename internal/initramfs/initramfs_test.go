// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cavaliergopher/cpio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/virt-do/quark/internal/initramfs"
)

func readArchive(t *testing.T, path string, compression initramfs.Compression) map[string]string {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = file.Close() })

	decompressed, err := compression.NewReader(file)
	require.NoError(t, err)

	entries := map[string]string{}
	reader := cpio.NewReader(decompressed)

	for {
		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)

		body, err := io.ReadAll(reader)
		require.NoError(t, err)

		assert.Zero(t, hdr.Uid, "owner of %s", hdr.Name)
		assert.Zero(t, hdr.Guid, "group of %s", hdr.Name)

		entries[hdr.Name] = hdr.Linkname + string(body)
	}

	return entries
}

func TestBuild(t *testing.T) {
	expected := map[string]string{
		"bin":         "",
		"bin/busybox": "bb",
		"bin/sh":      "/bin/busybox",
		"opt":         "",
		"opt/kaps":    "kaps",
	}

	for _, compression := range initramfs.Compressions {
		t.Run(string(compression), func(t *testing.T) {
			dir := makeRootfs(t)
			path := filepath.Join(t.TempDir(), "initramfs.img")

			err := initramfs.Build(t.Context(), dir, path, compression)
			require.NoError(t, err)

			assert.Equal(t, expected, readArchive(t, path, compression))
		})
	}
}

func TestBuildReproducible(t *testing.T) {
	dir := makeRootfs(t)
	out := t.TempDir()
	first := filepath.Join(out, "first.img")
	second := filepath.Join(out, "second.img")

	require.NoError(t, initramfs.Build(t.Context(), dir, first, initramfs.CompressionGzip))
	require.NoError(t, initramfs.Build(t.Context(), dir, second, initramfs.CompressionGzip))

	firstContent, err := os.ReadFile(first)
	require.NoError(t, err)

	secondContent, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Equal(t, firstContent, secondContent)
}

func TestBuildAtomic(t *testing.T) {
	tests := []struct {
		name        string
		prepare     func(t *testing.T) (context.Context, string)
		expectedErr error
	}{
		{
			name: "missing root",
			prepare: func(t *testing.T) (context.Context, string) {
				return t.Context(), filepath.Join(t.TempDir(), "missing")
			},
			expectedErr: os.ErrNotExist,
		},
		{
			name: "unsupported file",
			prepare: func(t *testing.T) (context.Context, string) {
				dir := makeRootfs(t)
				require.NoError(t, mkfifo(filepath.Join(dir, "fifo")))

				return t.Context(), dir
			},
			expectedErr: initramfs.ErrUnsupportedFileType,
		},
		{
			name: "canceled",
			prepare: func(t *testing.T) (context.Context, string) {
				ctx, cancel := context.WithCancel(t.Context())
				cancel()

				return ctx, makeRootfs(t)
			},
			expectedErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, dir := tt.prepare(t)
			out := t.TempDir()
			path := filepath.Join(out, "initramfs.img")

			err := initramfs.Build(ctx, dir, path, initramfs.CompressionLZMA)
			require.ErrorIs(t, err, tt.expectedErr)

			entries, err := os.ReadDir(out)
			require.NoError(t, err)
			assert.Empty(t, entries, "neither archive nor temporary file must remain")
		})
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		input       string
		expected    initramfs.Compression
		expectedErr error
	}{
		{input: "lzma", expected: initramfs.CompressionLZMA},
		{input: "ZSTD", expected: initramfs.CompressionZstd},
		{input: "none", expected: initramfs.CompressionNone},
		{input: "bzip2", expectedErr: initramfs.ErrUnknownCompression},
		{input: "", expectedErr: initramfs.ErrUnknownCompression},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			actual, err := initramfs.ParseCompression(tt.input)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestCompressionFlagValue(t *testing.T) {
	var compression initramfs.Compression

	assert.Equal(t, "lzma", compression.String())

	require.NoError(t, compression.Set("xz"))
	assert.Equal(t, initramfs.CompressionXZ, compression)

	require.NoError(t, compression.UnmarshalText([]byte("lz4")))
	assert.Equal(t, initramfs.CompressionLZ4, compression)

	require.ErrorIs(t, compression.Set("rar"), initramfs.ErrUnknownCompression)
	assert.Equal(t, initramfs.CompressionLZ4, compression, "must be unchanged")
}
