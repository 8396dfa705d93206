// Package cli defines the adbg command surface and the Globals value that
// threads shared state through every command.
package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/vburojevic/adbg/internal/config"
)

// CLI is the root kong command tree.
type CLI struct {
	Format  string `help:"Output format (text, ndjson, auto)" enum:"text,ndjson,auto" default:"${config_format}"`
	Quiet   bool   `help:"Suppress progress output"`
	Verbose bool   `help:"Enable diagnostic logging"`
	Adb     string `help:"Path to the adb executable (default: $ANDROID_NDK_ROOT/platform-tools/adb)"`

	Attach  AttachCmd  `cmd:"" help:"Attach a native debug session to a running application"`
	Devices DevicesCmd `cmd:"" help:"List devices and emulators visible to adb"`
	Doctor  DoctorCmd  `cmd:"" help:"Check the local environment for problems"`
	Config  ConfigCmd  `cmd:"" help:"Inspect and generate adbg configuration"`
	Schema  SchemaCmd  `cmd:"" help:"Output JSON Schema for adbg NDJSON output types"`
}

// Globals carries resolved settings and I/O streams into command Run methods.
// Stdout/Stderr are fields so tests can capture output.
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Adb     string
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config

	logger *agentLogger
}

// NewGlobalsWithConfig builds Globals from parsed flags with config fallbacks.
func NewGlobalsWithConfig(c *CLI, cfg *config.Config) *Globals {
	g := &Globals{
		Format:  c.Format,
		Quiet:   c.Quiet || cfg.Quiet,
		Verbose: c.Verbose || cfg.Verbose,
		Adb:     c.Adb,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}
	if g.Adb == "" {
		g.Adb = cfg.Defaults.Adb
	}
	if g.Format == "" || g.Format == "auto" {
		// Humans at a terminal get text; agents and pipes get ndjson.
		if isatty.IsTerminal(os.Stdout.Fd()) {
			g.Format = "text"
		} else {
			g.Format = "ndjson"
		}
	}
	g.logger = newAgentLogger(g)
	return g
}

// Debug logs a diagnostic line when --verbose is enabled.
func (g *Globals) Debug(format string, args ...interface{}) {
	g.logger.Debug(format, args...)
}
