// Package session drives the attach state machine: it validates the
// application and device, enforces the single-stub invariant, launches the
// remote debug stub, and forwards a local port to it.
package session

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/benbjohnson/clock"

	"github.com/vburojevic/adbg/internal/adb"
	"github.com/vburojevic/adbg/internal/artifact"
	"github.com/vburojevic/adbg/internal/device"
	"github.com/vburojevic/adbg/internal/domain"
	"github.com/vburojevic/adbg/internal/manifest"
)

const (
	stubName   = "gdbserver"
	socketName = "debug-socket"
)

// Params configures one attach attempt.
type Params struct {
	ManifestPath string // application descriptor file
	ProjectDir   string // application project root
	LibsDir      string // local staging dir with one subdirectory per built ABI
	OutDir       string // artifact output dir; derived from ProjectDir when empty
	Port         int    // local TCP port for the debug tunnel
}

// Session is the result of a successful attach.
type Session struct {
	Package    string
	ABI        string
	PID        int
	Port       int
	DataDir    string
	OutDir     string
	ConfigPath string
	States     []State // states reached, in order
}

// Manager owns the attach flow. A Manager runs one session at a time on a
// single control flow; the only concurrency it introduces is the detached
// reader behind the background stub launch.
type Manager struct {
	Runner    *adb.Runner
	Artifacts *artifact.Fetcher
	Clock     clock.Clock        // nil means wall clock
	OnStep    func(*domain.Step) // optional transition sink
	Debug     func(string, ...interface{})
}

func (m *Manager) clock() clock.Clock {
	if m.Clock != nil {
		return m.Clock
	}
	return clock.New()
}

func (m *Manager) debugf(format string, args ...interface{}) {
	if m.Debug != nil {
		m.Debug(format, args...)
	}
}

// Establish runs the full state machine. Any precondition failure aborts
// with a *Error carrying a stable code; there is no retry and no rollback.
func (m *Manager) Establish(ctx context.Context, p Params) (*Session, error) {
	sess := &Session{Port: p.Port}
	clk := m.clock()
	stepStart := clk.Now()

	advance := func(s State, detail string) {
		now := clk.Now()
		sess.States = append(sess.States, s)
		if m.OnStep != nil {
			m.OnStep(domain.NewStep(s.String(), detail, now.Sub(stepStart)))
		}
		stepStart = now
	}

	// Manifest validation.
	desc := manifest.Parse(p.ManifestPath)
	if !desc.HasPackage {
		return nil, failf("MANIFEST_NO_PACKAGE", "",
			"no package identifier in %s", p.ManifestPath)
	}
	sess.Package = desc.Package
	advance(StateManifestValidated, desc.Package)

	// Device negotiation.
	neg := &device.Negotiator{Runner: m.Runner}
	if err := neg.CheckReachable(ctx); err != nil {
		return nil, failf("NO_DEVICE", "check `adbg devices` and your -e/-d/-s selection",
			"%v", err)
	}
	apiLevel, err := neg.APILevel(ctx)
	if err != nil {
		return nil, failf("NO_DEVICE", "", "%v", err)
	}
	if apiLevel < device.MinAPILevel {
		return nil, failf("API_TOO_OLD", "",
			"device API level %d is older than the minimum supported level %d",
			apiLevel, device.MinAPILevel)
	}
	deviceABIs, err := neg.ABIs(ctx)
	if err != nil {
		return nil, failf("NO_DEVICE", "", "%v", err)
	}
	appABIs := stagedABIs(p.LibsDir)
	abi, err := device.NegotiateABI(deviceABIs, appABIs)
	if err != nil {
		return nil, failf("ABI_MISMATCH", "rebuild the application for one of the device ABIs",
			"%v", err)
	}
	sess.ABI = abi
	advance(StateAbiResolved, abi)

	// Debuggability: the manifest flag, or a staged stub as the proxy for a
	// debug build. Either way the staged stub must actually exist.
	localStub := filepath.Join(p.LibsDir, abi, stubName)
	stubStaged := fileExists(localStub)
	if !desc.Debuggable && !stubStaged {
		return nil, failf("NOT_DEBUGGABLE",
			"set android:debuggable=\"true\" in the manifest or rebuild with debug support",
			"application %s is not debuggable", desc.Package)
	}
	if !stubStaged {
		return nil, failf("GDBSERVER_MISSING",
			"the manifest allows debugging but the build did not stage %s; rebuild and reinstall",
			"no %s staged for ABI %s at %s", stubName, abi, localStub)
	}
	advance(StateDebuggabilityVerified, "")

	// The installed package must carry the stub too.
	res, err := m.Runner.Shell(ctx, "run-as", desc.Package, "ls", "lib/"+stubName)
	if err != nil {
		return nil, failf("STUB_NOT_INSTALLED", "", "%v", err)
	}
	if res.Code != 0 {
		return nil, failf("STUB_NOT_INSTALLED",
			"reinstall the application so lib/"+stubName+" is packaged",
			"no %s installed with %s on the device", stubName, desc.Package)
	}
	advance(StateStubAvailableOnDevice, "")

	// Target process and data directory.
	loc := &device.Locator{Runner: m.Runner}
	pid, found, err := loc.FindPid(ctx, desc.Package)
	if err != nil {
		return nil, failf("APP_NOT_RUNNING", "", "%v", err)
	}
	if !found {
		return nil, failf("APP_NOT_RUNNING", "launch the application on the device first",
			"%s is not running on the device", desc.Package)
	}
	sess.PID = pid

	res, err = m.Runner.Shell(ctx, "run-as", desc.Package, "/system/bin/sh", "-c", "pwd")
	if err != nil {
		return nil, failf("RUN_AS_FAILED", "", "%v", err)
	}
	dataDir := firstLine(res.Output)
	if res.Code != 0 || dataDir == "" {
		return nil, failf("RUN_AS_FAILED",
			"the package may not be debuggable on this device",
			"could not resolve the data directory of %s", desc.Package)
	}
	sess.DataDir = dataDir
	advance(StateTargetProcessFound, "pid "+strconv.Itoa(pid)+" in "+dataDir)

	// Single-stub invariant: kill any stale stub before launching a new one.
	// The stub is launched with the relative name lib/<stub>, so that is the
	// name ps reports for a survivor of a previous session.
	stalePid, staleFound, err := loc.FindPid(ctx, "lib/"+stubName)
	if err != nil {
		return nil, failf("KILL_FAILED", "", "%v", err)
	}
	if staleFound {
		m.debugf("killing stale %s (pid %d)", stubName, stalePid)
		res, err = m.Runner.Shell(ctx, "run-as", desc.Package, "kill", "-9", strconv.Itoa(stalePid))
		if err != nil || res.Code != 0 {
			return nil, failf("KILL_FAILED",
				"kill the stale "+stubName+" process manually and retry",
				"could not kill stale %s (pid %d)", stubName, stalePid)
		}
		advance(StateStaleStubCleared, "killed pid "+strconv.Itoa(stalePid))
	} else {
		advance(StateStaleStubCleared, "")
	}

	// Launch the stub attached to the target pid. The command runs for the
	// lifetime of the debug session and is never awaited.
	launch := []string{
		"shell", "run-as", desc.Package,
		"lib/" + stubName, "+" + socketName, "--attach", strconv.Itoa(pid),
	}
	err = m.Runner.RunBackground(launch, true, func(line string) {
		m.debugf("%s: %s", stubName, line)
	})
	if err != nil {
		return nil, failf("STUB_LAUNCH_FAILED", "", "%v", err)
	}
	advance(StateStubLaunched, "")

	// Tunnel the stub's socket to a local TCP port.
	res, err = m.Runner.Forward(ctx,
		"tcp:"+strconv.Itoa(p.Port),
		"localfilesystem:"+dataDir+"/"+socketName)
	if err != nil || res.Code != 0 {
		return nil, failf("FORWARD_FAILED",
			"the port may be taken; retry with a different --port",
			"could not forward tcp:%d to the debug stub", p.Port)
	}
	advance(StateTunnelEstablished, "tcp:"+strconv.Itoa(p.Port))

	// Artifacts for symbol resolution; pull failures surface as warnings.
	outDir := p.OutDir
	if outDir == "" {
		outDir = filepath.Join(p.ProjectDir, "obj", "local", abi)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, failf("ARTIFACT_DIR_FAILED", "", "could not create %s: %v", outDir, err)
	}
	sess.OutDir = outDir
	m.Artifacts.Fetch(ctx, outDir)
	advance(StateArtifactsRetrieved, outDir)

	configPath, err := artifact.WriteSessionConfig(outDir, outDir)
	if err != nil {
		return nil, failf("CONFIG_WRITE_FAILED", "", "%v", err)
	}
	sess.ConfigPath = configPath
	advance(StateSessionReady, "")
	return sess, nil
}

// stagedABIs lists the ABIs the application was built for, taken from the
// per-ABI subdirectories of the local staging dir.
func stagedABIs(libsDir string) []string {
	entries, err := os.ReadDir(libsDir)
	if err != nil {
		return nil
	}
	var abis []string
	for _, e := range entries {
		if e.IsDir() {
			abis = append(abis, e.Name())
		}
	}
	sort.Strings(abis)
	return abis
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			return s[:i]
		}
	}
	return s
}
