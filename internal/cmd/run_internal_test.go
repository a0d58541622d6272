// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"context"
	"debug/elf"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/virt-do/quark/internal/executable"
	"github.com/virt-do/quark/internal/pipeline"
	"github.com/virt-do/quark/internal/quardle"
	"github.com/virt-do/quark/internal/staging"
	"github.com/virt-do/quark/internal/toolchain"
	"gopkg.in/yaml.v3"
)

// fakeTools returns a runner that creates the outputs of git, cargo and the
// build scripts in the given staging directory. Commands whose name or
// script base name is in fail exit non-zero.
func fakeTools(t *testing.T, workdir string, fail ...string) *toolchain.FakeRunner {
	t.Helper()

	layout, err := staging.NewLayout(workdir, staging.DefaultKapsTarget)
	require.NoError(t, err)

	write := func(path, content string) error {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}

		return os.WriteFile(path, []byte(content), 0o755)
	}

	return &toolchain.FakeRunner{
		Fn: func(cmd toolchain.Command) (toolchain.Output, error) {
			key := cmd.Name
			if cmd.Name == "bash" {
				key = filepath.Base(cmd.Args[0])
			}

			for _, f := range fail {
				if f == key {
					return toolchain.Output{}, &toolchain.ToolError{
						Step:     cmd.Step,
						Command:  cmd.String(),
						ExitCode: 1,
						Err:      assert.AnError,
					}
				}
			}

			var err error

			switch {
			case cmd.Name == "git" && cmd.Args[0] == "clone":
				err = os.MkdirAll(filepath.Join(cmd.Args[2], ".git"), 0o755)
			case cmd.Name == "cargo":
				err = write(layout.KapsBinary, string(executable.MinimalELF(elf.EM_X86_64, "")))
			case key == "mkkernel.sh":
				err = write(layout.Kernel, "vmlinux")
			case key == "mkbundle.sh":
				err = errors.Join(
					write(filepath.Join(layout.Bundle, "config.json"), "{}"),
					write(filepath.Join(layout.Bundle, "rootfs", "bin", "app"), "app"),
				)
			case key == "mkrootfs.sh":
				err = write(filepath.Join(layout.Rootfs, "bin", "busybox"), "busybox")
			}

			return toolchain.Output{}, err
		},
	}
}

type result struct {
	exitCode int
	stdout   string
	stderr   string
}

func execute(t *testing.T, runner toolchain.Runner, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer

	a := &app{
		IO:     IO{Stdout: &stdout, Stderr: &stderr},
		runner: runner,
	}

	exitCode := run(t.Context(), a, args)

	return result{exitCode, stdout.String(), stderr.String()}
}

func TestBuildRunInspect(t *testing.T) {
	tmp := t.TempDir()
	workdir := filepath.Join(tmp, "work")
	output := filepath.Join(tmp, "out")
	config := filepath.Join(tmp, "quark.toml")

	require.NoError(t, os.WriteFile(config, []byte(
		"workdir = \""+workdir+"\"\noutput = \""+output+"\"\ncompression = \"gzip\"\n",
	), 0o644))

	runner := fakeTools(t, workdir)

	res := execute(t, runner,
		"build", "--quardle", "demo", "--offline",
		"--image", "docker.io/library/alpine:3.14",
		"--config", config,
	)
	require.Equal(t, 0, res.exitCode, res.stderr)

	archivePath := filepath.Join(output, "demo.qrk")
	assert.Equal(t, archivePath+"\n", res.stdout)
	require.FileExists(t, archivePath)

	t.Run("run", func(t *testing.T) {
		dir := filepath.Join(tmp, "unpacked")

		res := execute(t, nil, "run", "--quardle", archivePath, "--output", dir)
		require.Equal(t, 0, res.exitCode, res.stderr)

		assert.Contains(t, res.stdout, "quardle:   demo\n")
		assert.Contains(t, res.stdout, "kernel:    "+filepath.Join(dir, "vmlinux.bin")+"\n")
		assert.Contains(t, res.stdout, "bundle:    /ctr-bundle/\n")
		assert.FileExists(t, filepath.Join(dir, "initramfs.img"))
		assert.DirExists(t, filepath.Join(dir, "ctr-bundle", "rootfs"))

		again := execute(t, nil, "run", "--quardle", archivePath, "--output", dir)
		require.Equal(t, 0, again.exitCode, again.stderr)
		assert.Equal(t, res.stdout, again.stdout)
		assert.Contains(t, again.stderr, "already unpacked")
	})

	t.Run("run default output", func(t *testing.T) {
		res := execute(t, nil, "run", "--quardle", archivePath)
		require.Equal(t, 0, res.exitCode, res.stderr)
		assert.DirExists(t, filepath.Join(output, "demo"))
	})

	t.Run("run archive without extension", func(t *testing.T) {
		content, err := os.ReadFile(archivePath)
		require.NoError(t, err)

		plain := filepath.Join(t.TempDir(), "demo")
		require.NoError(t, os.WriteFile(plain, content, 0o644))

		res := execute(t, nil, "run", "--quardle", plain)
		require.Equal(t, 0, res.exitCode, res.stderr)
		assert.Contains(t, res.stdout, "quardle:   demo\n")
		assert.FileExists(t, filepath.Join(plain+".unpacked", "vmlinux.bin"))
	})

	t.Run("inspect json", func(t *testing.T) {
		res := execute(t, nil, "inspect", archivePath)
		require.Equal(t, 0, res.exitCode, res.stderr)

		var manifest quardle.Manifest

		require.NoError(t, json.Unmarshal([]byte(res.stdout), &manifest))
		assert.Equal(t, "demo", manifest.Quardle)
		assert.Equal(t, "docker.io/library/alpine:3.14", manifest.Image)
		assert.True(t, manifest.Offline)
	})

	t.Run("inspect yaml", func(t *testing.T) {
		res := execute(t, nil, "inspect", archivePath, "--format", "yaml")
		require.Equal(t, 0, res.exitCode, res.stderr)

		var manifest quardle.Manifest

		require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &manifest))
		assert.Equal(t, quardle.NewManifest(
			"demo", "docker.io/library/alpine:3.14", pipeline.DefaultKernelCmdline, true,
		), manifest)
	})

	t.Run("inspect contents", func(t *testing.T) {
		res := execute(t, nil, "inspect", archivePath, "--contents")
		require.Equal(t, 0, res.exitCode, res.stderr)

		var members []member

		require.NoError(t, json.Unmarshal([]byte(res.stdout), &members))
		require.GreaterOrEqual(t, len(members), 3)

		names := make([]string, 0, len(members))
		for _, m := range members {
			names = append(names, m.Name)
		}

		assert.Equal(t, []string{"quark.json", "vmlinux.bin", "initramfs.img"}, names[:3])
	})
}

func TestBuildFlagsOverrideConfig(t *testing.T) {
	tmp := t.TempDir()
	workdir := filepath.Join(tmp, "work")
	output := filepath.Join(tmp, "flag-out")
	config := filepath.Join(tmp, "quark.toml")

	require.NoError(t, os.WriteFile(config, []byte(
		"workdir = \""+workdir+"\"\noutput = \""+filepath.Join(tmp, "config-out")+"\"\n",
	), 0o644))

	res := execute(t, fakeTools(t, workdir),
		"build", "--quardle", "demo",
		"--config", config,
		"--output", output,
		"--keep-staging",
		"--compression", "none",
	)
	require.Equal(t, 0, res.exitCode, res.stderr)

	assert.FileExists(t, filepath.Join(output, "demo.qrk"))
	assert.NoDirExists(t, filepath.Join(tmp, "config-out"))
	assert.FileExists(t, filepath.Join(workdir, staging.InitramfsFile))
}

func TestBuildShortFlags(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)
	workdir := filepath.Join(tmp, "work")
	output := filepath.Join(tmp, "out")

	res := execute(t, fakeTools(t, workdir),
		"build", "-q", "demo", "-o",
		"-i", "docker.io/library/alpine:3.14",
		"-k", "console=hvc0",
		"--workdir", workdir,
		"--output", output,
	)
	require.Equal(t, 0, res.exitCode, res.stderr)

	manifest, err := quardle.Inspect(filepath.Join(output, "demo.qrk"))
	require.NoError(t, err)
	assert.True(t, manifest.Offline)
	assert.Equal(t, "docker.io/library/alpine:3.14", manifest.Image)
	assert.Equal(t, "console=hvc0", manifest.KernelCmdline)
}

func TestBuildInitBinary(t *testing.T) {
	tests := []struct {
		name         string
		interp       string
		expectedCode int
	}{
		{
			name: "static",
		},
		{
			name:         "dynamic",
			interp:       "/lib/ld-musl-x86_64.so.1",
			expectedCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			t.Chdir(tmp)

			workdir := filepath.Join(tmp, "work")
			initBinary := filepath.Join(tmp, "quark-init")

			require.NoError(t, os.WriteFile(initBinary, executable.MinimalELF(elf.EM_X86_64, tt.interp), 0o755))

			res := execute(t, fakeTools(t, workdir),
				"build", "--quardle", "demo",
				"--workdir", workdir,
				"--output", tmp,
				"--keep-staging",
				"--init-binary", initBinary,
			)
			require.Equal(t, tt.expectedCode, res.exitCode, res.stderr)

			if tt.expectedCode != 0 {
				assert.Contains(t, res.stderr, "init binary")
				return
			}

			layout, err := staging.NewLayout(workdir, staging.DefaultKapsTarget)
			require.NoError(t, err)
			assert.FileExists(t, filepath.Join(layout.Rootfs, "etc", "quark", "init.toml"))

			installed, err := os.ReadFile(filepath.Join(layout.Rootfs, "init"))
			require.NoError(t, err)
			assert.Equal(t, executable.MinimalELF(elf.EM_X86_64, ""), installed)
		})
	}
}

func TestBuildStepFailure(t *testing.T) {
	workdir := filepath.Join(t.TempDir(), "work")

	res := execute(t, fakeTools(t, workdir, "cargo"),
		"build", "--quardle", "demo", "--workdir", workdir, "--output", workdir,
	)

	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stderr, "step kaps")
	assert.NoFileExists(t, filepath.Join(workdir, "demo.qrk"))
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "build without quardle",
			args: []string{"build"},
		},
		{
			name: "run without quardle",
			args: []string{"run"},
		},
		{
			name: "unknown command",
			args: []string{"boot"},
		},
		{
			name: "unknown flag",
			args: []string{"build", "--quardle", "demo", "--fast"},
		},
		{
			name: "invalid compression",
			args: []string{"build", "--quardle", "demo", "--compression", "bzip2"},
		},
		{
			name: "inspect without file",
			args: []string{"inspect"},
		},
		{
			name: "inspect unknown format",
			args: []string{"inspect", "demo.qrk", "--format", "xml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &toolchain.FakeRunner{}

			res := execute(t, runner, tt.args...)
			assert.Equal(t, 2, res.exitCode)
			assert.True(t, strings.HasPrefix(res.stderr, "Error: "), res.stderr)
			assert.Empty(t, runner.Commands())
		})
	}
}

func TestBuildMissingConfig(t *testing.T) {
	res := execute(t, &toolchain.FakeRunner{},
		"build", "--quardle", "demo",
		"--config", filepath.Join(t.TempDir(), "missing.toml"),
	)

	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stderr, "missing.toml")
}

func TestVersion(t *testing.T) {
	res := execute(t, nil, "--version")
	require.Equal(t, 0, res.exitCode, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "Version: "))
}

func TestHandleRunError(t *testing.T) {
	tests := []struct {
		name             string
		err              error
		expectedExitCode int
	}{
		{
			name: "no error",
		},
		{
			name: "cleanup error",
			err:  &pipeline.CleanupError{Err: assert.AnError},
		},
		{
			name:             "canceled",
			err:              &pipeline.StepError{Step: "kernel", Err: context.Canceled},
			expectedExitCode: 130,
		},
		{
			name: "tool error",
			err: &pipeline.StepError{Step: "kernel", Err: &toolchain.ToolError{
				Step:     "kernel",
				ExitCode: 2,
				Err:      assert.AnError,
			}},
			expectedExitCode: 1,
		},
		{
			name:             "other error",
			err:              assert.AnError,
			expectedExitCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedExitCode, handleRunError(tt.err))
		})
	}
}

func TestDefaultUnpackDir(t *testing.T) {
	tests := []struct {
		archive  string
		expected string
	}{
		{archive: "out/demo.qrk", expected: "out/demo"},
		{archive: "/tmp/demo.tar.gz", expected: "/tmp/demo.tar"},
		{archive: "out/demo", expected: "out/demo.unpacked"},
		{archive: "releases.v2/demo", expected: "releases.v2/demo.unpacked"},
		{archive: "out/.qrk", expected: "out/.qrk.unpacked"},
		{archive: ".qrk", expected: ".qrk.unpacked"},
	}

	for _, tt := range tests {
		t.Run(tt.archive, func(t *testing.T) {
			assert.Equal(t, tt.expected, defaultUnpackDir(tt.archive))
		})
	}
}
