package session

import "fmt"

// State is a stage of the attach flow. Transitions are strictly sequential;
// a failed precondition aborts the session at the state it was entering.
type State int

const (
	StateIdle State = iota
	StateManifestValidated
	StateAbiResolved
	StateDebuggabilityVerified
	StateStubAvailableOnDevice
	StateTargetProcessFound
	StateStaleStubCleared
	StateStubLaunched
	StateTunnelEstablished
	StateArtifactsRetrieved
	StateSessionReady
)

var stateNames = map[State]string{
	StateIdle:                  "Idle",
	StateManifestValidated:     "ManifestValidated",
	StateAbiResolved:           "AbiResolved",
	StateDebuggabilityVerified: "DebuggabilityVerified",
	StateStubAvailableOnDevice: "StubAvailableOnDevice",
	StateTargetProcessFound:    "TargetProcessFound",
	StateStaleStubCleared:      "StaleStubCleared",
	StateStubLaunched:          "StubLaunched",
	StateTunnelEstablished:     "TunnelEstablished",
	StateArtifactsRetrieved:    "ArtifactsRetrieved",
	StateSessionReady:          "SessionReady",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Error is a fatal session failure with a stable code and optional hint.
type Error struct {
	Code    string
	Message string
	Hint    string
}

func (e *Error) Error() string {
	return e.Message
}

func failf(code, hint, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Hint: hint}
}
