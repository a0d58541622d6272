// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// quark-init is a static init program for quardle guests. It prepares the
// guest and executes the container runtime configured in
// /etc/quark/init.toml.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/virt-do/quark/internal/guestinit"
)

func main() {
	var (
		configPath string
		flagCfg    guestinit.Config
	)

	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.StringVar(&configPath, "config", guestinit.ConfigPath, "configuration file")
	flags.StringVar(&flagCfg.Runtime, "runtime", "", "container runtime binary, overrides the configuration")
	flags.StringVar(&flagCfg.Bundle, "bundle", "", "container bundle, overrides the configuration")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}

		os.Exit(2)
	}

	cfg, err := guestinit.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(126)
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "runtime":
			cfg.Runtime = flagCfg.Runtime
		case "bundle":
			cfg.Bundle = flagCfg.Bundle
		}
	})

	// Usually, we never reach this point, since Run replaces the process
	// with the runtime.
	err = guestinit.HostSystem().Run(cfg)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	if errors.Is(err, guestinit.ErrNotPidOne) {
		os.Exit(127)
	}

	os.Exit(126)
}
