package cli

import (
	"encoding/json"
	"fmt"

	"github.com/vburojevic/adbg/internal/config"
)

// ConfigCmd groups configuration inspection subcommands.
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"1" help:"Show the effective configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show which config file is in use"`
	Generate ConfigGenerateCmd `cmd:"" help:"Print a sample configuration file"`
}

// ConfigShowCmd prints the effective configuration.
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if globals.Format == "ndjson" {
		out := map[string]interface{}{
			"type":    "config",
			"format":  cfg.Format,
			"quiet":   cfg.Quiet,
			"verbose": cfg.Verbose,
			"defaults": map[string]interface{}{
				"port":    cfg.Defaults.Port,
				"project": cfg.Defaults.Project,
				"adb":     cfg.Defaults.Adb,
			},
		}
		return json.NewEncoder(globals.Stdout).Encode(out)
	}

	fmt.Fprintln(globals.Stdout, "Current Configuration:")
	fmt.Fprintf(globals.Stdout, "  format:  %s\n", cfg.Format)
	fmt.Fprintf(globals.Stdout, "  quiet:   %t\n", cfg.Quiet)
	fmt.Fprintf(globals.Stdout, "  verbose: %t\n", cfg.Verbose)
	fmt.Fprintln(globals.Stdout, "Defaults:")
	fmt.Fprintf(globals.Stdout, "  port:    %d\n", cfg.Defaults.Port)
	fmt.Fprintf(globals.Stdout, "  project: %s\n", cfg.Defaults.Project)
	if cfg.Defaults.Adb != "" {
		fmt.Fprintf(globals.Stdout, "  adb:     %s\n", cfg.Defaults.Adb)
	}
	return nil
}

// ConfigPathCmd prints the config file path.
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		out := map[string]interface{}{
			"type": "config_path",
			"path": path,
		}
		return json.NewEncoder(globals.Stdout).Encode(out)
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found (using defaults)")
		return nil
	}
	fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	return nil
}

// ConfigGenerateCmd prints a sample configuration file.
type ConfigGenerateCmd struct{}

const sampleConfig = `# adbg configuration file
# Place in ~/.adbg.yaml, ./adbg.yaml, or /etc/adbg/adbg.yaml

# Output format: text, ndjson, or auto (text on a terminal, ndjson otherwise)
format: auto

# Suppress progress output
quiet: false

# Enable diagnostic logging
verbose: false

defaults:
  # Local TCP port for the debug tunnel
  port: 10000
  # Application project root
  project: .
  # Explicit adb path (default: $ANDROID_NDK_ROOT/platform-tools/adb)
  # adb: /usr/local/bin/adb
`

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	fmt.Fprint(globals.Stdout, sampleConfig)
	return nil
}
