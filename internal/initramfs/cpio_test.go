// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs_test

import (
	"bytes"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/cavaliergopher/cpio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/virt-do/quark/internal/initramfs"
)

func TestCPIOWriter(t *testing.T) {
	regularFileBody := make([]byte, 200)
	for idx := range regularFileBody {
		regularFileBody[idx] = byte(idx)
	}

	testFS := fstest.MapFS{
		"regular": &fstest.MapFile{Data: regularFileBody},
		"dir":     &fstest.MapFile{Mode: fs.ModeDir},
	}

	tests := []struct {
		name         string
		run          func(w *initramfs.CPIOWriter) error
		expectedErr  error
		assertHeader func(t assert.TestingT, hdr *cpio.Header)
		expectedBody []byte
	}{
		{
			name: "write directory",
			run: func(w *initramfs.CPIOWriter) error {
				return w.WriteDirectory("test", fs.ModeDir|0o755)
			},
			assertHeader: func(t assert.TestingT, hdr *cpio.Header) {
				assert.Equal(t, "test", hdr.Name, "name")
				assert.EqualValues(t, 0o755|cpio.TypeDir, hdr.Mode, "mode")
				assert.EqualValues(t, 0, hdr.Size, "size")
				assert.Equal(t, 0, hdr.Uid, "uid")
				assert.Equal(t, 0, hdr.Guid, "gid")
			},
		},
		{
			name: "write sticky directory",
			run: func(w *initramfs.CPIOWriter) error {
				return w.WriteDirectory("tmp", fs.ModeDir|fs.ModeSticky|0o777)
			},
			assertHeader: func(t assert.TestingT, hdr *cpio.Header) {
				assert.EqualValues(t, 0o1777|cpio.TypeDir, hdr.Mode, "mode")
			},
		},
		{
			name: "write link",
			run: func(w *initramfs.CPIOWriter) error {
				return w.WriteLink("test", "target")
			},
			assertHeader: func(t assert.TestingT, hdr *cpio.Header) {
				assert.Equal(t, "test", hdr.Name, "name")
				assert.EqualValues(t, 0o777|cpio.TypeSymlink, hdr.Mode, "mode")
				assert.EqualValues(t, 0, hdr.Size, "size")
				assert.Equal(t, "target", hdr.Linkname)
			},
		},
		{
			name: "write regular",
			run: func(w *initramfs.CPIOWriter) error {
				file, err := testFS.Open("regular")
				require.NoError(t, err)

				return w.WriteRegular("test", file, 0o755)
			},
			assertHeader: func(t assert.TestingT, hdr *cpio.Header) {
				assert.Equal(t, "test", hdr.Name, "name")
				assert.EqualValues(t, 0o755|cpio.TypeReg, hdr.Mode, "mode")
				assert.EqualValues(t, 200, hdr.Size, "size")
				assert.True(t, hdr.ModTime.IsZero() || hdr.ModTime.Unix() == 0, "mtime")
			},
			expectedBody: regularFileBody,
		},
		{
			name: "write setuid regular",
			run: func(w *initramfs.CPIOWriter) error {
				file, err := testFS.Open("regular")
				require.NoError(t, err)

				return w.WriteRegular("bbsuid", file, fs.ModeSetuid|0o755)
			},
			assertHeader: func(t assert.TestingT, hdr *cpio.Header) {
				assert.EqualValues(t, 0o4755|cpio.TypeReg, hdr.Mode, "mode")
			},
			expectedBody: regularFileBody,
		},
		{
			name: "write regular invalid",
			run: func(w *initramfs.CPIOWriter) error {
				file, err := testFS.Open("dir")
				require.NoError(t, err)

				return w.WriteRegular("test", file, 0o755)
			},
			expectedErr: initramfs.ErrNotRegularFile,
		},
		{
			name: "write closed",
			run: func(w *initramfs.CPIOWriter) error {
				err := w.Close()
				require.NoError(t, err)

				return w.WriteLink("test", "target")
			},
			expectedErr: cpio.ErrWriteAfterClose,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var archive bytes.Buffer

			w := initramfs.NewCPIOWriter(&archive)

			err := tt.run(w)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.assertHeader == nil {
				return
			}

			require.NoError(t, w.Close())

			r := cpio.NewReader(&archive)

			h, err := r.Next()
			require.NoError(t, err)

			tt.assertHeader(t, h)

			if tt.expectedBody == nil {
				return
			}

			body, err := io.ReadAll(r)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedBody, body)
		})
	}
}
