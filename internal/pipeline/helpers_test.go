// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/virt-do/quark/internal/archive"
)

// procedureFunc is a [pipeline.Procedure] calling a function.
type procedureFunc func() error

func (f procedureFunc) Build(context.Context, ...string) (string, error) {
	return "", f()
}

func packTree(path, dir string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := archive.NewWriter(file)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := writer.AddTree(entry.Name(), filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}

	return writer.Close()
}
