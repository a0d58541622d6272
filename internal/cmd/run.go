// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/virt-do/quark/internal/quardle"
)

// unpackSuffix is appended to archive paths without extension to get the
// default unpack directory.
const unpackSuffix = ".unpacked"

// defaultUnpackDir returns the directory a quardle archive is unpacked to if
// none is given: the archive path without extension. If that is not a
// distinct path, [unpackSuffix] is appended to the archive path instead.
func defaultUnpackDir(archivePath string) string {
	dir := strings.TrimSuffix(archivePath, filepath.Ext(archivePath))
	if dir == archivePath || dir == "" || strings.HasSuffix(dir, string(filepath.Separator)) {
		return archivePath + unpackSuffix
	}

	return dir
}

func (a *app) runCommand() *cobra.Command {
	var archivePath, outputDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Unpack a quardle",
		Long: "Unpack a quardle archive and print how to boot it. Nothing is " +
			"done if the output directory already exists.",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlag(cmd, "quardle"); err != nil {
				return err
			}

			if outputDir == "" {
				outputDir = defaultUnpackDir(archivePath)
			}

			unpacked, err := quardle.Unpack(archivePath, outputDir)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if unpacked {
				slog.Info("Quardle unpacked", slog.String("dir", outputDir))
			} else {
				slog.Info("Quardle already unpacked, skipping", slog.String("dir", outputDir))
			}

			manifest, err := quardle.ReadManifest(filepath.Join(outputDir, quardle.ManifestName))
			if err != nil {
				return err //nolint:wrapcheck
			}

			return printSummary(a.Stdout, outputDir, manifest)
		},
	}

	cmd.Flags().StringVar(&archivePath, "quardle", "", "quardle archive to unpack")
	cmd.Flags().StringVar(&outputDir, "output", "",
		"directory to unpack to (default: archive path without extension)")

	return cmd
}

// printSummary prints the boot parameters of an unpacked quardle.
func printSummary(w io.Writer, dir string, manifest quardle.Manifest) error {
	bundle := "none"
	if manifest.Bundle != nil {
		bundle = *manifest.Bundle
	}

	_, err := fmt.Fprintf(w,
		"quardle:   %s\nkernel:    %s\ninitramfs: %s\ncmdline:   %s\nimage:     %s\noffline:   %t\nbundle:    %s\n",
		manifest.Quardle,
		filepath.Join(dir, manifest.Kernel),
		filepath.Join(dir, manifest.Initramfs),
		manifest.KernelCmdline,
		manifest.Image,
		manifest.Offline,
		bundle,
	)
	if err != nil {
		return fmt.Errorf("print summary: %w", err)
	}

	return nil
}
