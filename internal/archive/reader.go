// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Member describes an entry of an archive.
type Member struct {
	Name string
	Size int64
	Mode os.FileMode
	Link string
}

// walk calls fn for every entry of the gzip compressed tar stream r. The
// tar reader passed to fn is positioned at the body of the entry. Walking
// stops early if fn returns [io.EOF].
func walk(r io.Reader, fn func(*tar.Header, io.Reader) error) error {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("gzip: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read tar entry: %w", err)
		}

		err = fn(header, tarReader)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}
	}
}

// List returns all members of the archive read from r in archive order.
func List(r io.Reader) ([]Member, error) {
	var members []Member

	err := walk(r, func(header *tar.Header, _ io.Reader) error {
		members = append(members, Member{
			Name: header.Name,
			Size: header.Size,
			Mode: header.FileInfo().Mode(),
			Link: header.Linkname,
		})

		return nil
	})

	return members, err
}

// ReadMember returns the content of the regular file member name of the
// archive read from r. The archive is read only up to the member.
func ReadMember(r io.Reader, name string) ([]byte, error) {
	var content []byte

	name = path.Clean(strings.TrimPrefix(name, "./"))

	err := walk(r, func(header *tar.Header, body io.Reader) error {
		if path.Clean(header.Name) != name || header.Typeflag != tar.TypeReg {
			return nil
		}

		data, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		content = data

		return io.EOF
	})
	if err != nil {
		return nil, err
	}

	if content == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrMemberNotFound)
	}

	return content, nil
}
