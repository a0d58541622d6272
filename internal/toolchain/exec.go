// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package toolchain

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// MaxCapturedLines is the number of lines per stream kept in [Output].
const MaxCapturedLines = 200

// WaitDelay is how long [ExecRunner.Run] waits for the output pipes to be
// closed after the process exited. Descendants that left the process group
// may hold them open.
const WaitDelay = 5 * time.Second

// maxLineLength is the longest line the output scanner accepts.
const maxLineLength = 1 << 20

// ExecRunner runs commands as child processes of the current process.
type ExecRunner struct {
	// Logger receives the output lines of the commands. If nil, the default
	// logger is used.
	Logger *slog.Logger
}

// Run runs the command and waits for it to terminate. Stdout and stderr are
// streamed to the logger on debug level while the command runs. The
// command runs in its own process group.
//
// A [ToolError] is returned if the command cannot be started or exits
// non-zero. Cancelling the context kills the command and all its
// descendants.
func (r *ExecRunner) Run(ctx context.Context, command Command) (Output, error) {
	var output Output

	if command.Name == "" {
		return output, &ToolError{
			Step:    command.Step,
			Command: command.String(),
			Err:     ErrEmptyCommand,
		}
	}

	logger := r.logger().With(
		slog.String("step", command.Step),
		slog.String("tool", command.Name),
	)

	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir

	if len(command.Env) > 0 {
		cmd.Env = append(os.Environ(), command.Env...)
	}

	// Scripts start compilers and make jobs. Cancellation kills the whole
	// process group, so no descendant keeps running or holds the output
	// pipes open.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL) //nolint:wrapcheck
	}
	cmd.WaitDelay = WaitDelay

	toolErr := func(exitCode int, err error) *ToolError {
		return &ToolError{
			Step:     command.Step,
			Command:  command.String(),
			ExitCode: exitCode,
			Err:      err,
		}
	}

	stdoutReader, stdoutWriter := io.Pipe()
	stderrReader, stderrWriter := io.Pipe()

	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter

	logger.Debug("Run command",
		slog.String("command", command.String()),
		slog.String("dir", command.Dir),
	)

	if err := cmd.Start(); err != nil {
		return output, toolErr(0, fmt.Errorf("start: %w", err))
	}

	streams := errgroup.Group{}
	streams.Go(func() error {
		return streamLines(stdoutReader, &output.Stdout, logger, "stdout")
	})
	streams.Go(func() error {
		return streamLines(stderrReader, &output.Stderr, logger, "stderr")
	})

	waitErr := cmd.Wait()

	_ = stdoutWriter.Close()
	_ = stderrWriter.Close()

	streamErr := streams.Wait()

	if err := waitErr; err != nil {
		exitCode := 0

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(err, ctxErr)
		}

		return output, toolErr(exitCode, err)
	}

	if streamErr != nil {
		return output, toolErr(0, streamErr)
	}

	return output, nil
}

func (r *ExecRunner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}

	return slog.Default()
}

// streamLines logs every line read from the reader and keeps the last
// [MaxCapturedLines] of them in lines. On scanner errors the rest of the
// input is discarded, so the writing process never blocks.
func streamLines(
	reader io.Reader,
	lines *[]string,
	logger *slog.Logger,
	stream string,
) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	for scanner.Scan() {
		line := scanner.Text()
		logger.Debug(line, slog.String("stream", stream))

		*lines = append(*lines, line)
		if len(*lines) > MaxCapturedLines {
			*lines = (*lines)[1:]
		}
	}

	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, reader)
		return fmt.Errorf("read %s: %w", stream, err)
	}

	return nil
}
