package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/vburojevic/adbg/internal/cli"
	"github.com/vburojevic/adbg/internal/config"
)

const quickStart = `adbg - attach a native debug session to a running Android application

Quick start:
  adbg devices                          List connected devices
  adbg doctor                           Check your environment
  adbg attach -p ./myapp                Attach to the app declared in ./myapp

For help:
  adbg --help                           All commands and flags
  adbg schema                           Machine-readable output docs
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Apply config defaults before parsing
	// These will be overridden by CLI flags if specified
	vars := kong.Vars{
		"config_format":   cfg.Format,
		"default_port":    strconv.Itoa(cfg.Defaults.Port),
		"default_project": cfg.Defaults.Project,
	}

	ctx := kong.Parse(&c,
		kong.Name("adbg"),
		kong.Description("adbg: set up a remote native debug session against an application running on a device or emulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	// Create globals with config fallbacks
	globals := cli.NewGlobalsWithConfig(&c, cfg)
	err = ctx.Run(globals)
	if err != nil {
		os.Exit(1)
	}
}
