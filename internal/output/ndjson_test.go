package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vburojevic/adbg/internal/domain"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	dec := json.NewDecoder(buf)
	var m map[string]interface{}
	require.NoError(t, dec.Decode(&m))
	return m
}

func TestWriteStep(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	err := w.WriteStep(domain.NewStep("AbiResolved", "arm64-v8a", 40*time.Millisecond))
	require.NoError(t, err)

	m := decodeLine(t, buf)
	require.Equal(t, "step", m["type"])
	require.EqualValues(t, 1, m["schemaVersion"])
	require.Equal(t, "AbiResolved", m["state"])
	require.Equal(t, "arm64-v8a", m["detail"])
	require.EqualValues(t, 40, m["elapsed_ms"])
	require.NotEmpty(t, m["timestamp"])
}

func TestWriteReady(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	ready := domain.NewReady("com.example.app", "arm64-v8a", 901, 10000,
		"/data/data/com.example.app", "/tmp/out", "/tmp/out/gdb.setup")
	require.NoError(t, w.WriteReady(ready))

	m := decodeLine(t, buf)
	require.Equal(t, "ready", m["type"])
	require.EqualValues(t, 1, m["schemaVersion"])
	require.Equal(t, "com.example.app", m["package"])
	require.EqualValues(t, 901, m["pid"])
	require.EqualValues(t, 10000, m["port"])
	require.Equal(t, "/tmp/out/gdb.setup", m["config_path"])
}

func TestWriteError(t *testing.T) {
	t.Run("with hint", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewNDJSONWriter(buf)

		require.NoError(t, w.WriteError("FORWARD_FAILED", "could not forward", "try another port"))

		m := decodeLine(t, buf)
		require.Equal(t, "error", m["type"])
		require.Equal(t, "FORWARD_FAILED", m["code"])
		require.Equal(t, "could not forward", m["message"])
		require.Equal(t, "try another port", m["hint"])
	})

	t.Run("without hint omits the field", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewNDJSONWriter(buf)

		require.NoError(t, w.WriteError("NO_DEVICE", "nothing connected"))

		m := decodeLine(t, buf)
		_, present := m["hint"]
		require.False(t, present)
	})
}

func TestTextWriterStep(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTextWriter(buf)

	require.NoError(t, w.WriteStep(domain.NewStep("TunnelEstablished", "tcp:10000", 0)))
	require.Equal(t, "[TunnelEstablished] tcp:10000\n", buf.String())

	buf.Reset()
	require.NoError(t, w.WriteStep(domain.NewStep("SessionReady", "", 0)))
	require.Equal(t, "[SessionReady]\n", buf.String())
}
