package cli

import "github.com/vburojevic/adbg/internal/adb"

// validateSelector rejects conflicting device selectors before any device
// communication happens.
func validateSelector(globals *Globals, sel adb.Selector) error {
	if err := sel.Validate(); err != nil {
		return outputErrorCommon(globals, "INVALID_FLAGS", err.Error(),
			"pick one of -e, -d, or -s <serial>")
	}
	return nil
}
