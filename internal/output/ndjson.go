// Package output renders adbg events as NDJSON for agents or plain text for
// humans. Every NDJSON event carries a type discriminator and schemaVersion.
package output

import (
	"encoding/json"
	"io"

	"github.com/vburojevic/adbg/internal/domain"
)

// NDJSONWriter emits one JSON object per line.
type NDJSONWriter struct {
	enc *json.Encoder
}

// NewNDJSONWriter creates an NDJSON writer on w.
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{enc: json.NewEncoder(w)}
}

// WriteStep emits a state-machine transition event.
func (w *NDJSONWriter) WriteStep(step *domain.Step) error {
	return w.enc.Encode(step)
}

// WriteReady emits the final session summary.
func (w *NDJSONWriter) WriteReady(ready *domain.Ready) error {
	return w.enc.Encode(ready)
}

// WriteError emits a machine-readable error with an optional hint.
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	ev := &domain.ErrorEvent{
		Type:          "error",
		SchemaVersion: domain.SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		ev.Hint = hint[0]
	}
	return w.enc.Encode(ev)
}

// WriteDevice emits a single device row.
func (w *NDJSONWriter) WriteDevice(d *domain.Device) error {
	return w.enc.Encode(d)
}

// WriteDoctor emits the doctor report.
func (w *NDJSONWriter) WriteDoctor(report *domain.DoctorReport) error {
	return w.enc.Encode(report)
}
