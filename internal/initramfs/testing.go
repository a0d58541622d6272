// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: MIT

package initramfs

import (
	"io"
	"io/fs"
)

// Entry is an archive entry recorded by [RecordingWriter].
type Entry struct {
	Path   string
	Type   fs.FileMode
	Mode   fs.FileMode
	Target string
	Data   string
}

// RecordingWriter is a [Writer] that records all entries written to it.
type RecordingWriter struct {
	Entries []Entry
	Err     error
}

func (m *RecordingWriter) WriteRegular(path string, source fs.File, mode fs.FileMode) error {
	data, err := io.ReadAll(source)
	if err != nil {
		return err //nolint:wrapcheck
	}

	m.Entries = append(m.Entries, Entry{Path: path, Mode: mode.Perm(), Data: string(data)})

	return m.Err
}

func (m *RecordingWriter) WriteDirectory(path string, mode fs.FileMode) error {
	m.Entries = append(m.Entries, Entry{Path: path, Type: fs.ModeDir, Mode: mode.Perm()})

	return m.Err
}

func (m *RecordingWriter) WriteLink(path, target string) error {
	m.Entries = append(m.Entries, Entry{Path: path, Type: fs.ModeSymlink, Target: target})

	return m.Err
}
