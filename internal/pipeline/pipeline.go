// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/virt-do/quark/internal/cache"
	"github.com/virt-do/quark/internal/executable"
	"github.com/virt-do/quark/internal/initramfs"
	"github.com/virt-do/quark/internal/quardle"
	"github.com/virt-do/quark/internal/staging"
	"github.com/virt-do/quark/internal/toolchain"
)

// Procedure is an opaque build collaborator, usually a shell script. It
// produces its output at a path known to the caller and returns that path.
type Procedure interface {
	Build(ctx context.Context, params ...string) (string, error)
}

// Pipeline builds quardles in a staging directory.
type Pipeline struct {
	Layout staging.Layout
	// Runner runs git and cargo for the kaps step.
	Runner toolchain.Runner
	Kaps   KapsSource
	// Kernel builds the kernel at [staging.Layout.Kernel].
	Kernel Procedure
	// Bundle creates the container bundle at [staging.Layout.Bundle]. It is
	// called with the image as only parameter. Only needed for offline
	// requests.
	Bundle Procedure
	// Rootfs creates the base root file system at [staging.Layout.Rootfs].
	Rootfs      Procedure
	Compression initramfs.Compression
	// InitBinary is a static quark-init binary installed as init of the
	// guest. If empty, the init shell script is installed.
	InitBinary string
	// OutputDir is the directory the quardle archive is written to.
	OutputDir string
	// KeepStaging disables the removal of the intermediates after a
	// successful build.
	KeepStaging bool
	Logger      *slog.Logger
}

// State is shared by all steps of a single pipeline run.
type State struct {
	Request  Request
	BuildID  string
	Logger   *slog.Logger
	Cache    *cache.Store
	Manifest quardle.Manifest
	Archive  string
}

// Result describes a built quardle.
type Result struct {
	BuildID  string
	Archive  string
	Manifest quardle.Manifest
}

// Step is a single stage of the pipeline.
type Step interface {
	Name() string
	Run(ctx context.Context, state *State) error
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}

	return slog.Default()
}

// Steps returns the steps that build the given request in order.
func (p *Pipeline) Steps(request Request) []Step {
	steps := []Step{
		&kapsStep{p},
		&kernelStep{p},
	}

	if request.Offline {
		steps = append(steps, &bundleStep{p})
	}

	return append(steps,
		&rootfsStep{p},
		&manifestStep{p},
		&archiveStep{p},
	)
}

func (p *Pipeline) validate(request Request) error {
	if err := request.Validate(); err != nil {
		return err
	}

	procedures := map[string]Procedure{
		"kernel": p.Kernel,
		"rootfs": p.Rootfs,
	}

	if request.Offline {
		procedures["bundle"] = p.Bundle
	}

	for name, procedure := range procedures {
		if procedure == nil {
			return fmt.Errorf("%w: %s", ErrMissingProcedure, name)
		}
	}

	if p.Runner == nil {
		return fmt.Errorf("%w: runner", ErrMissingProcedure)
	}

	machine, err := executable.MachineForTarget(p.Kaps.Target)
	if err != nil {
		return fmt.Errorf("kaps target: %w", err)
	}

	if p.InitBinary != "" {
		if err := executable.ValidateStatic(p.InitBinary, machine); err != nil {
			return fmt.Errorf("init binary: %w", err)
		}
	}

	return nil
}

// Run builds the quardle described by request.
//
// Steps run in order and the first failing step aborts the run with a
// [StepError]. Artifacts of completed steps are kept for the next run. If
// only the final cleanup fails, the [Result] is valid and a [CleanupError]
// is returned along with it.
func (p *Pipeline) Run(ctx context.Context, request Request) (Result, error) {
	if err := p.validate(request); err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(p.Layout.Root, 0o755); err != nil {
		return Result{}, fmt.Errorf("create staging directory: %w", err)
	}

	buildID := uuid.New().String()
	logger := p.logger().With(slog.String("build", buildID))

	state := &State{
		Request: request,
		BuildID: buildID,
		Logger:  logger,
		Cache:   cache.NewStore(p.Layout.Cache),
	}

	logger.Info("Build quardle",
		slog.String("quardle", request.Name),
		slog.Bool("offline", request.Offline),
		slog.String("staging", p.Layout.Root),
	)

	for _, step := range p.Steps(request) {
		if err := p.runStep(ctx, step, state); err != nil {
			return Result{}, err
		}
	}

	result := Result{
		BuildID:  buildID,
		Archive:  state.Archive,
		Manifest: state.Manifest,
	}

	logger.Info("Quardle built", slog.String("archive", result.Archive))

	if p.KeepStaging {
		return result, nil
	}

	if err := p.cleanup(state); err != nil {
		logger.Warn("Cleanup failed", slog.String("error", err.Error()))
		return result, &CleanupError{Err: err}
	}

	return result, nil
}

func (p *Pipeline) runStep(ctx context.Context, step Step, state *State) error {
	if err := ctx.Err(); err != nil {
		return &StepError{Step: step.Name(), Err: err}
	}

	logger := state.Logger
	state.Logger = logger.With(slog.String("step", step.Name()))

	defer func() { state.Logger = logger }()

	start := time.Now()

	state.Logger.Debug("Step started")

	if err := step.Run(ctx, state); err != nil {
		return &StepError{Step: step.Name(), Err: err}
	}

	state.Logger.Debug("Step finished", slog.Duration("duration", time.Since(start)))

	return nil
}

// ArchivePath returns the path of the archive for the quardle with the
// given name.
func (p *Pipeline) ArchivePath(name string) string {
	return filepath.Join(p.OutputDir, quardle.FileName(name))
}
