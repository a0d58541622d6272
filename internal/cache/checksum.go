// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

const checksumPrefix = "blake3:"

// Checksum returns the BLAKE3 digest of the file or directory at path.
//
// For regular files it is the digest of the content. Directories are
// digested as tree: the relative path, type and permissions of every entry
// in lexical order, followed by the content of regular files and the target
// of symbolic links. Modification times and ownership are ignored.
func Checksum(path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return "", fmt.Errorf("checksum: %w", err)
	}

	hasher := blake3.New()

	if info.IsDir() {
		err = hashTree(hasher, path)
	} else {
		err = hashFile(hasher, path)
	}

	if err != nil {
		return "", fmt.Errorf("checksum %s: %w", path, err)
	}

	return checksumPrefix + hex.EncodeToString(hasher.Sum(nil)), nil
}

func hashFile(w io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer file.Close()

	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("read: %w", err)
	}

	return nil
}

func hashTree(hasher *blake3.Hasher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("info: %w", err)
		}

		writeField(hasher, []byte(filepath.ToSlash(rel)))
		writeField(hasher, binary.BigEndian.AppendUint32(nil, uint32(info.Mode())))

		switch info.Mode().Type() {
		case fs.ModeSymlink:
			target, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("read link: %w", err)
			}

			writeField(hasher, []byte(target))
		case 0:
			writeField(hasher, binary.BigEndian.AppendUint64(nil, uint64(info.Size())))

			if err := hashFile(hasher, path); err != nil {
				return err
			}
		}

		return nil
	})
}

// writeField writes a length prefixed field, so adjacent fields can not be
// confused with each other.
func writeField(hasher *blake3.Hasher, field []byte) {
	_, _ = hasher.Write(binary.BigEndian.AppendUint32(nil, uint32(len(field))))
	_, _ = hasher.Write(field)
}
