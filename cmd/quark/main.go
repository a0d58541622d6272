// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/virt-do/quark/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	exitCode := cmd.Run(ctx, os.Args[1:], cmd.IO{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})

	stop()
	os.Exit(exitCode)
}
