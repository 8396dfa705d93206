package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/adbg/internal/adb"
)

// stubADB fakes `adb pull` by creating the destination file, failing for any
// remote path listed in failRemotes.
func stubADB(t *testing.T, failRemotes ...string) *adb.Runner {
	t.Helper()
	script := "#!/bin/sh\n"
	for _, remote := range failRemotes {
		script += fmt.Sprintf("[ \"$2\" = %q ] && { echo 'remote object does not exist' >&2; exit 1; }\n", remote)
	}
	script += "eval last=\\${$#}\n: > \"$last\"\nexit 0\n"

	path := filepath.Join(t.TempDir(), "adb")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return &adb.Runner{Path: path}
}

func TestFetch(t *testing.T) {
	t.Run("pulls all four binaries in order", func(t *testing.T) {
		outDir := t.TempDir()
		f := &Fetcher{Runner: stubADB(t)}

		pulled := f.Fetch(context.Background(), outDir)
		require.Len(t, pulled, 4)
		assert.Equal(t, filepath.Join(outDir, "app_process"), pulled[0])
		assert.Equal(t, filepath.Join(outDir, "linker"), pulled[1])
		assert.Equal(t, filepath.Join(outDir, "libc.so"), pulled[2])
		assert.Equal(t, filepath.Join(outDir, "libstdc++.so"), pulled[3])
		for _, p := range pulled {
			assert.FileExists(t, p)
		}
	})

	t.Run("a failed pull does not abort the rest", func(t *testing.T) {
		outDir := t.TempDir()
		var warnings []string
		f := &Fetcher{
			Runner: stubADB(t, "/system/bin/linker"),
			Warn: func(format string, args ...interface{}) {
				warnings = append(warnings, fmt.Sprintf(format, args...))
			},
		}

		pulled := f.Fetch(context.Background(), outDir)
		assert.Len(t, pulled, 3)
		assert.NoFileExists(t, filepath.Join(outDir, "linker"))
		assert.FileExists(t, filepath.Join(outDir, "libstdc++.so"))
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "/system/bin/linker")
	})
}

func TestWriteSessionConfig(t *testing.T) {
	t.Run("writes both directives", func(t *testing.T) {
		outDir := t.TempDir()

		path, err := WriteSessionConfig(outDir, outDir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(outDir, ConfigName), path)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t,
			"set solib-search-path "+outDir+"\n"+
				"file "+filepath.Join(outDir, "app_process")+"\n",
			string(content))
	})

	t.Run("truncates an existing file", func(t *testing.T) {
		outDir := t.TempDir()
		path := filepath.Join(outDir, ConfigName)
		require.NoError(t, os.WriteFile(path, []byte("stale content that is much longer than the replacement\nlines\nlines\n"), 0o644))

		_, err := WriteSessionConfig(outDir, "/solibs")
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "set solib-search-path /solibs\n")
		assert.NotContains(t, string(content), "stale")
	})

	t.Run("fails for a missing directory", func(t *testing.T) {
		_, err := WriteSessionConfig(filepath.Join(t.TempDir(), "missing"), "/solibs")
		require.Error(t, err)
	})
}
