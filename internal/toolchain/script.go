// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Script is an opaque build procedure implemented as shell script. It is run
// with bash in Dir and must produce Output, which is either a file or a
// directory.
type Script struct {
	Runner Runner
	Step   string
	// Path of the script. Relative paths are relative to Dir.
	Path string
	Dir  string
	// Output is the path the script is expected to create. Relative paths are
	// relative to Dir.
	Output string
}

// Build runs the script with the given parameters and returns the path of
// its output. [ErrNoOutput] is returned if the script succeeded but the
// output does not exist.
func (s *Script) Build(ctx context.Context, params ...string) (string, error) {
	_, err := s.Runner.Run(ctx, Command{
		Step: s.Step,
		Name: "bash",
		Args: append([]string{s.Path}, params...),
		Dir:  s.Dir,
	})
	if err != nil {
		return "", err
	}

	output := s.Output
	if !filepath.IsAbs(output) && s.Dir != "" {
		output = filepath.Join(s.Dir, output)
	}

	if _, err := os.Stat(output); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %s: %w", s.Path, s.Output, ErrNoOutput)
		}

		return "", fmt.Errorf("check output: %w", err)
	}

	return output, nil
}
