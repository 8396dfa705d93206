// Package artifact retrieves the device binaries a debugger needs for
// symbol resolution and writes the session configuration it consumes.
package artifact

import (
	"context"
	"path/filepath"

	"github.com/vburojevic/adbg/internal/adb"
)

// remoteBinaries are pulled in this order: the process launcher first (the
// debugger's `file` target), then the dynamic linker and the C/C++ runtimes.
var remoteBinaries = []string{
	"/system/bin/app_process",
	"/system/bin/linker",
	"/system/lib/libc.so",
	"/system/lib/libstdc++.so",
}

// LauncherName is the basename of the retrieved process-launcher binary.
const LauncherName = "app_process"

// Fetcher copies device binaries into the session output directory.
type Fetcher struct {
	Runner *adb.Runner
	Warn   func(string, ...interface{}) // per-file failure sink; may be nil
}

func (f *Fetcher) warnf(format string, args ...interface{}) {
	if f.Warn != nil {
		f.Warn(format, args...)
	}
}

// Fetch pulls the runtime binaries into outDir and returns the local paths
// that were retrieved. Each pull is independent and failures do not abort
// the rest: partial symbol resolution is still better than none.
func (f *Fetcher) Fetch(ctx context.Context, outDir string) []string {
	var pulled []string
	for _, remote := range remoteBinaries {
		local := filepath.Join(outDir, filepath.Base(remote))
		res, err := f.Runner.Pull(ctx, remote, local)
		if err != nil {
			f.warnf("pull %s: %v", remote, err)
			continue
		}
		if res.Code != 0 {
			f.warnf("pull %s failed: %s", remote, res.Output)
			continue
		}
		pulled = append(pulled, local)
	}
	return pulled
}
