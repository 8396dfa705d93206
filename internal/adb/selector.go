package adb

import "errors"

// Selector narrows adb commands to a single device or emulator.
// The zero value targets whatever single device adb sees.
type Selector struct {
	Emulator bool   // -e: the single running emulator
	Device   bool   // -d: the single attached physical device
	Serial   string // -s <serial>: a specific device or emulator
}

// ErrSelectorConflict is returned when more than one of -e/-d/-s is set.
var ErrSelectorConflict = errors.New("only one of -e, -d, or -s may be used")

// Validate rejects conflicting selector combinations.
func (s Selector) Validate() error {
	n := 0
	if s.Emulator {
		n++
	}
	if s.Device {
		n++
	}
	if s.Serial != "" {
		n++
	}
	if n > 1 {
		return ErrSelectorConflict
	}
	return nil
}

// Args returns the adb argument prefix for this selector.
func (s Selector) Args() []string {
	switch {
	case s.Serial != "":
		return []string{"-s", s.Serial}
	case s.Emulator:
		return []string{"-e"}
	case s.Device:
		return []string{"-d"}
	}
	return nil
}

// Description names the selector for diagnostics.
func (s Selector) Description() string {
	switch {
	case s.Serial != "":
		return "device " + s.Serial
	case s.Emulator:
		return "the running emulator"
	case s.Device:
		return "the attached device"
	}
	return "any connected device"
}
