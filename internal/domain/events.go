package domain

import "time"

// SchemaVersion is the current version of all NDJSON event schemas.
const SchemaVersion = 1

// Step is emitted for every state-machine transition during attach.
type Step struct {
	Type          string `json:"type"`          // "step"
	SchemaVersion int    `json:"schemaVersion"` // 1
	State         string `json:"state"`         // state reached, e.g. "TunnelEstablished"
	Detail        string `json:"detail,omitempty"`
	ElapsedMS     int64  `json:"elapsed_ms"`
	Timestamp     string `json:"timestamp"`
}

// Ready is emitted once when the debug session is fully established.
type Ready struct {
	Type          string `json:"type"`          // "ready"
	SchemaVersion int    `json:"schemaVersion"` // 1
	Package       string `json:"package"`       // application identifier
	ABI           string `json:"abi"`           // negotiated ABI
	PID           int    `json:"pid"`           // target process id on the device
	Port          int    `json:"port"`          // local TCP port forwarded to the stub
	DataDir       string `json:"data_dir"`      // application data directory on the device
	OutDir        string `json:"out_dir"`       // local directory with retrieved binaries
	ConfigPath    string `json:"config_path"`   // path to the generated gdb.setup
	Timestamp     string `json:"timestamp"`
}

// ErrorEvent is the machine-readable form of a fatal diagnostic.
type ErrorEvent struct {
	Type          string `json:"type"`          // "error"
	SchemaVersion int    `json:"schemaVersion"` // 1
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// Device is one row of `adbg devices`.
type Device struct {
	Type          string `json:"type"`          // "device"
	SchemaVersion int    `json:"schemaVersion"` // 1
	Serial        string `json:"serial"`
	State         string `json:"state"` // device, offline, unauthorized...
}

// DoctorCheck is a single environment check result.
type DoctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// DoctorReport aggregates all doctor checks.
type DoctorReport struct {
	Type          string        `json:"type"`          // "doctor"
	SchemaVersion int           `json:"schemaVersion"` // 1
	Checks        []DoctorCheck `json:"checks"`
	AllPassed     bool          `json:"all_passed"`
	ErrorCount    int           `json:"error_count"`
}

// NewStep creates a Step event for the given state.
func NewStep(state, detail string, elapsed time.Duration) *Step {
	return &Step{
		Type:          "step",
		SchemaVersion: SchemaVersion,
		State:         state,
		Detail:        detail,
		ElapsedMS:     elapsed.Milliseconds(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
}

// NewReady creates the final success event.
func NewReady(pkg, abi string, pid, port int, dataDir, outDir, configPath string) *Ready {
	return &Ready{
		Type:          "ready",
		SchemaVersion: SchemaVersion,
		Package:       pkg,
		ABI:           abi,
		PID:           pid,
		Port:          port,
		DataDir:       dataDir,
		OutDir:        outDir,
		ConfigPath:    configPath,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
}
