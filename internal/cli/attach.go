package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/vburojevic/adbg/internal/adb"
	"github.com/vburojevic/adbg/internal/artifact"
	"github.com/vburojevic/adbg/internal/config"
	"github.com/vburojevic/adbg/internal/domain"
	"github.com/vburojevic/adbg/internal/output"
	"github.com/vburojevic/adbg/internal/session"
)

// AttachCmd establishes a native debug session against a running application.
type AttachCmd struct {
	Project  string `short:"p" default:"${default_project}" help:"Application project root (contains AndroidManifest.xml and libs/)"`
	Out      string `help:"Output directory for retrieved binaries (default: <project>/obj/local/<abi>)"`
	Port     int    `default:"${default_port}" help:"Local TCP port for the debug tunnel"`
	Emulator bool   `short:"e" xor:"target" help:"Target the single running emulator"`
	Device   bool   `short:"d" xor:"target" help:"Target the single attached physical device"`
	Serial   string `short:"s" xor:"target" help:"Target a specific device or emulator serial"`
}

// Run executes the attach command
func (c *AttachCmd) Run(globals *Globals) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	sel := adb.Selector{Emulator: c.Emulator, Device: c.Device, Serial: c.Serial}
	if err := validateSelector(globals, sel); err != nil {
		return err
	}

	// The toolkit root is required regardless of --adb; a bad value has to
	// fail before any device work starts.
	if _, err := config.NDKRoot(); err != nil {
		return outputErrorCommon(globals, "ENV_NDK_ROOT", err.Error(),
			"export "+config.NDKRootEnv+" pointing at your NDK installation")
	}
	adbPath, err := config.ResolveADB(globals.Adb)
	if err != nil {
		return outputErrorCommon(globals, "ENV_ADB", err.Error())
	}
	globals.Debug("using adb at %s", adbPath)

	runner := &adb.Runner{Path: adbPath, Selector: sel}
	warn := func(format string, args ...interface{}) {
		if globals.Format == "ndjson" {
			fmt.Fprintf(globals.Stdout, `{"type":"warning","message":%q}`+"\n", fmt.Sprintf(format, args...))
		} else if !globals.Quiet {
			fmt.Fprintf(globals.Stderr, "Warning: "+format+"\n", args...)
		}
	}

	var stepWriter interface {
		WriteStep(*domain.Step) error
		WriteReady(*domain.Ready) error
	}
	if globals.Format == "ndjson" {
		stepWriter = output.NewNDJSONWriter(globals.Stdout)
	} else {
		stepWriter = output.NewTextWriter(globals.Stderr)
	}

	mgr := &session.Manager{
		Runner:    runner,
		Artifacts: &artifact.Fetcher{Runner: runner, Warn: warn},
		Debug:     globals.Debug,
	}
	if !globals.Quiet {
		mgr.OnStep = func(step *domain.Step) {
			stepWriter.WriteStep(step)
		}
	}

	sess, err := mgr.Establish(ctx, session.Params{
		ManifestPath: filepath.Join(c.Project, "AndroidManifest.xml"),
		ProjectDir:   c.Project,
		LibsDir:      filepath.Join(c.Project, "libs"),
		OutDir:       c.Out,
		Port:         c.Port,
	})
	if err != nil {
		var sessErr *session.Error
		if errors.As(err, &sessErr) {
			return outputErrorCommon(globals, sessErr.Code, sessErr.Message, sessErr.Hint)
		}
		return outputErrorCommon(globals, "ATTACH_FAILED", err.Error())
	}

	ready := domain.NewReady(sess.Package, sess.ABI, sess.PID, sess.Port,
		sess.DataDir, sess.OutDir, sess.ConfigPath)
	if globals.Format == "ndjson" {
		return stepWriter.WriteReady(ready)
	}
	return output.NewTextWriter(globals.Stdout).WriteReady(ready)
}
