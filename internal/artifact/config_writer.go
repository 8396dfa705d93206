package artifact

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigName is the session configuration file consumed by the debugger.
const ConfigName = "gdb.setup"

// WriteSessionConfig writes the debugger configuration into outDir, naming
// the solib search path and the retrieved process-launcher binary. The file
// is truncated if it exists and is flushed and closed on every exit path.
func WriteSessionConfig(outDir, solibSearchPath string) (string, error) {
	path := filepath.Join(outDir, ConfigName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintf(w, "set solib-search-path %s\n", solibSearchPath); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := fmt.Fprintf(w, "file %s\n", filepath.Join(outDir, LauncherName)); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	return path, nil
}
