package device

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// locatorStub builds a stub adb whose readlink answer selects the ps variant
// and whose ps output is fixed.
func locatorStub(t *testing.T, psTarget, psOutput string) *Locator {
	t.Helper()
	script := fmt.Sprintf(`case "$*" in
*"readlink /system/bin/ps"*) printf '%s\n0\n' ;;
*"ls -l /system/bin/ps"*) printf '%s\n0\n' ;;
*"ps -w"*) printf '%%s' "$PS_WIDE_OUTPUT"; printf '0\n' ;;
*"shell ps"*) printf '%%s' "$PS_OUTPUT"; printf '0\n' ;;
esac
`, psTarget, psTarget)
	r := stubRunner(t, script)
	t.Setenv("PS_OUTPUT", psOutput)
	t.Setenv("PS_WIDE_OUTPUT", psOutput)
	return &Locator{Runner: r}
}

const toolboxListing = `USER     PID   PPID  VSIZE  RSS   WCHAN    PC         NAME
root      1     0     696    500   c00bd520 00019fb8 S /init
u0_a51    880   38    84100  25092 ffffffff 40037ebc S com.example
u0_a52    901   38    85200  26000 ffffffff 40037ebc S com.example.app
`

const busyboxListing = `PID   USER     TIME   COMMAND
    1 root       0:01 /init
  901 u0_a52     0:05 com.example.app
`

func TestFindPid(t *testing.T) {
	t.Run("full-width listing", func(t *testing.T) {
		l := locatorStub(t, "toolbox", toolboxListing)

		pid, found, err := l.FindPid(context.Background(), "com.example.app")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 901, pid)
	})

	t.Run("busybox listing with PID in the first column", func(t *testing.T) {
		l := locatorStub(t, "/system/bin/busybox", busyboxListing)

		pid, found, err := l.FindPid(context.Background(), "com.example.app")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 901, pid)
	})

	t.Run("a strict substring must not match", func(t *testing.T) {
		l := locatorStub(t, "toolbox", toolboxListing)

		_, found, err := l.FindPid(context.Background(), "com.example.ap")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("not found returns pid 0", func(t *testing.T) {
		l := locatorStub(t, "toolbox", toolboxListing)

		pid, found, err := l.FindPid(context.Background(), "org.missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, 0, pid)
	})

	t.Run("last matching row wins", func(t *testing.T) {
		listing := `USER     PID   NAME
u0_a1    100   com.example.app
u0_a1    200   com.example.app
`
		l := locatorStub(t, "toolbox", listing)

		pid, found, err := l.FindPid(context.Background(), "com.example.app")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 200, pid)
	})

	t.Run("unparseable header falls back to column 1", func(t *testing.T) {
		listing := `no usable header here at all
u0_a1    321   com.example.app
`
		l := locatorStub(t, "toolbox", listing)

		pid, found, err := l.FindPid(context.Background(), "com.example.app")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 321, pid)
	})

	t.Run("empty listing", func(t *testing.T) {
		l := locatorStub(t, "toolbox", "PID NAME\n")

		_, found, err := l.FindPid(context.Background(), "x")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestPidColumn(t *testing.T) {
	assert.Equal(t, 1, pidColumn("USER PID PPID NAME"))
	assert.Equal(t, 0, pidColumn("PID USER COMMAND"))
	assert.Equal(t, 0, pidColumn("pid listing")) // case-insensitive match
	assert.Equal(t, fallbackPIDColumn, pidColumn("no header"))
}
