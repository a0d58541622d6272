// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/virt-do/quark/internal/pipeline"
	"github.com/virt-do/quark/internal/toolchain"
)

const name = "quark"

// IO provides output details for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

type app struct {
	IO

	// runner runs the build tools. If nil, they are run as child processes.
	runner toolchain.Runner

	debug   bool
	version bool
}

func (a *app) toolRunner() toolchain.Runner {
	if a.runner != nil {
		return a.runner
	}

	return &toolchain.ExecRunner{}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           name,
		Short:         "Build and unpack quardles, bootable micro-VM images for a container",
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(a.Stderr, a.debug)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.version {
				return cmd.Help()
			}

			buildInfo, err := getBuildInfo()
			if err != nil {
				return err
			}

			fmt.Fprintf(a.Stdout, "Version: %s\n", buildInfo.Main.Version)

			return nil
		},
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug output")
	root.Flags().BoolVar(&a.version, "version", false, "show version and exit")

	root.AddCommand(
		a.buildCommand(),
		a.runCommand(),
		a.inspectCommand(),
	)

	return root
}

func handleRunError(err error) int {
	if err == nil {
		return 0
	}

	// The quardle was built, only removing the staging leftovers failed.
	// The pipeline already logged it.
	if errors.Is(err, &pipeline.CleanupError{}) {
		return 0
	}

	if errors.Is(err, context.Canceled) {
		slog.Warn("Interrupted", slog.String("error", err.Error()))
		return 130
	}

	slog.Error(err.Error())

	return 1
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	return run(ctx, &app{IO: cfg}, args)
}

func run(ctx context.Context, a *app, args []string) int {
	setupLogging(a.Stderr, false)

	root := a.rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if errors.Is(err, &usageError{}) {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		fmt.Fprintf(a.Stderr, "Run '%s --help' for usage.\n", name)

		return 2
	}

	return handleRunError(err)
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}

// usageArgs marks errors of the given argument validator as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}

		return nil
	}
}

// requireFlag returns a usage error if the flag with the given name is not
// set.
func requireFlag(cmd *cobra.Command, flag string) error {
	if cmd.Flags().Changed(flag) {
		return nil
	}

	return &usageError{err: fmt.Errorf("required flag \"%s\" not set", flag)}
}
