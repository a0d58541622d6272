// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/virt-do/quark/internal/initramfs"
	"github.com/virt-do/quark/internal/pipeline"
	"github.com/virt-do/quark/internal/staging"
	"github.com/virt-do/quark/internal/toolchain"
)

type buildFlags struct {
	configFile string
	request    pipeline.Request
	config     Config
}

func (f *buildFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.request.Name, "quardle", "q", "", "name of the quardle")
	fs.StringVarP(&f.request.Image, "image", "i", f.request.Image, "container image URL")
	fs.BoolVarP(&f.request.Offline, "offline", "o", false, "embed the container bundle")
	fs.StringVarP(&f.request.KernelCmdline, "kernel-cmdline", "k", f.request.KernelCmdline,
		"kernel command line recorded in the manifest")
	fs.StringVar(&f.configFile, "config", f.configFile, "configuration file")
	fs.StringVar(&f.config.Workdir, "workdir", f.config.Workdir, "staging directory")
	fs.StringVar(&f.config.Output, "output", f.config.Output,
		"directory the quardle is written to")
	fs.BoolVar(&f.config.KeepStaging, "keep-staging", false,
		"keep the intermediate artifacts in the staging directory")
	fs.Var(&f.config.Compression, "compression",
		fmt.Sprintf("initramfs compression, one of %v", initramfs.Compressions))
	fs.StringVar(&f.config.RootfsArchive, "rootfs-archive", "",
		"local tarball used as base root file system instead of the rootfs script")
	fs.StringVar(&f.config.InitBinary, "init-binary", "",
		"static quark-init binary installed as guest init instead of the init script")
}

// apply overrides the values of cfg with the flags set on the command line.
func (f *buildFlags) apply(flags *pflag.FlagSet, cfg *Config) {
	if flags.Changed("workdir") {
		cfg.Workdir = f.config.Workdir
	}

	if flags.Changed("output") {
		cfg.Output = f.config.Output
	}

	if flags.Changed("keep-staging") {
		cfg.KeepStaging = f.config.KeepStaging
	}

	if flags.Changed("compression") {
		cfg.Compression = f.config.Compression
	}

	if flags.Changed("rootfs-archive") {
		cfg.RootfsArchive = f.config.RootfsArchive
	}

	if flags.Changed("init-binary") {
		cfg.InitBinary = f.config.InitBinary
	}
}

func (a *app) buildCommand() *cobra.Command {
	flags := buildFlags{
		configFile: DefaultConfigFile,
		request: pipeline.Request{
			Image:         pipeline.DefaultImage,
			KernelCmdline: pipeline.DefaultKernelCmdline,
		},
		config: DefaultConfig(),
	}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a quardle",
		Long: "Build a quardle archive containing a kernel, an initramfs with " +
			"the kaps container runtime and, in offline mode, the container " +
			"bundle. Artifacts in the working directory are reused.",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlag(cmd, "quardle"); err != nil {
				return err
			}

			cfg, err := LoadConfig(flags.configFile, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}

			flags.apply(cmd.Flags(), &cfg)

			if err := cfg.Validate(); err != nil {
				return err
			}

			p, err := newPipeline(cfg, a.toolRunner())
			if err != nil {
				return err
			}

			result, err := p.Run(cmd.Context(), flags.request)
			if result.Archive != "" {
				fmt.Fprintln(a.Stdout, result.Archive)
			}

			return err //nolint:wrapcheck
		},
	}

	flags.bind(cmd.Flags())

	return cmd
}

// newPipeline returns the pipeline for the given configuration.
func newPipeline(cfg Config, runner toolchain.Runner) (*pipeline.Pipeline, error) {
	layout, err := staging.NewLayout(cfg.Workdir, cfg.Kaps.Target)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	output, err := absPath(cfg.Output)
	if err != nil {
		return nil, err
	}

	script := func(step, path, output string) (*toolchain.Script, error) {
		path, err := absPath(path)
		if err != nil {
			return nil, err
		}

		return &toolchain.Script{
			Runner: runner,
			Step:   step,
			Path:   path,
			Dir:    layout.Root,
			Output: output,
		}, nil
	}

	kernel, err := script("kernel", cfg.Scripts.Kernel, layout.Kernel)
	if err != nil {
		return nil, err
	}

	bundle, err := script("bundle", cfg.Scripts.Bundle, layout.Bundle)
	if err != nil {
		return nil, err
	}

	var rootfs pipeline.Procedure

	if cfg.RootfsArchive != "" {
		archive, err := absPath(cfg.RootfsArchive)
		if err != nil {
			return nil, err
		}

		rootfs = &pipeline.RootfsArchive{Archive: archive, Dir: layout.Rootfs}
	} else {
		rootfs, err = script("rootfs", cfg.Scripts.Rootfs, layout.Rootfs)
		if err != nil {
			return nil, err
		}
	}

	var initBinary string

	if cfg.InitBinary != "" {
		initBinary, err = absPath(cfg.InitBinary)
		if err != nil {
			return nil, err
		}
	}

	slog.Debug("Pipeline configured",
		slog.String("staging", layout.Root),
		slog.String("output", output),
		slog.String("compression", string(cfg.Compression)),
	)

	return &pipeline.Pipeline{
		Layout: layout,
		Runner: runner,
		Kaps: pipeline.KapsSource{
			Repository: cfg.Kaps.Repository,
			Ref:        cfg.Kaps.Ref,
			Target:     cfg.Kaps.Target,
		},
		Kernel:      kernel,
		Bundle:      bundle,
		Rootfs:      rootfs,
		Compression: cfg.Compression,
		InitBinary:  initBinary,
		OutputDir:   output,
		KeepStaging: cfg.KeepStaging,
		Logger:      slog.Default(),
	}, nil
}
