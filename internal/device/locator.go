package device

import (
	"context"
	"strconv"
	"strings"

	"github.com/vburojevic/adbg/internal/adb"
)

// fallbackPIDColumn is used when the ps header cannot be parsed. This is a
// known fragility: on an unusual listing format it can silently select the
// wrong column, but it is kept for compatibility with the devices this flow
// has always supported.
const fallbackPIDColumn = 1

// Locator resolves process ids for named packages or binaries on the device.
// Lookups are never cached: a pid observed once may be gone by the next call.
type Locator struct {
	Runner *adb.Runner
}

// FindPid returns the pid of the process whose name matches exactly. The
// match is against the last whitespace-delimited field of each listing row,
// scanned from the bottom up so the most recently listed match wins. When no
// row matches, (0, false, nil) is returned.
func (l *Locator) FindPid(ctx context.Context, name string) (int, bool, error) {
	psArgs := []string{"ps"}
	if l.constrainedPS(ctx) {
		// The minimal ps truncates long names unless wide output is forced.
		psArgs = append(psArgs, "-w")
	}

	res, err := l.Runner.Shell(ctx, psArgs...)
	if err != nil {
		return 0, false, err
	}
	lines := strings.Split(res.Output, "\n")
	if len(lines) < 2 {
		return 0, false, nil
	}

	pidCol := pidColumn(lines[0])
	for i := len(lines) - 1; i >= 1; i-- {
		fields := strings.Fields(lines[i])
		if len(fields) == 0 || fields[len(fields)-1] != name {
			continue
		}
		if pidCol >= len(fields) {
			continue
		}
		pid, convErr := strconv.Atoi(fields[pidCol])
		if convErr != nil {
			continue
		}
		return pid, true, nil
	}
	return 0, false, nil
}

// constrainedPS reports whether the device's ps is the truncating busybox
// variant, detected by resolving what /system/bin/ps really is.
func (l *Locator) constrainedPS(ctx context.Context) bool {
	res, err := l.Runner.Shell(ctx, "readlink", "/system/bin/ps")
	if err == nil && res.Code == 0 && strings.Contains(res.Output, "busybox") {
		return true
	}
	// Some devices ship without readlink; a long listing names the target too.
	res, err = l.Runner.Shell(ctx, "ls", "-l", "/system/bin/ps")
	return err == nil && res.Code == 0 && strings.Contains(res.Output, "busybox")
}

// pidColumn finds the index of the PID column in the ps header, falling back
// to a fixed index when the header is unparseable.
func pidColumn(header string) int {
	for i, label := range strings.Fields(header) {
		if strings.EqualFold(label, "PID") {
			return i
		}
	}
	return fallbackPIDColumn
}
