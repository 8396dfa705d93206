package output

import (
	"fmt"
	"io"

	"github.com/vburojevic/adbg/internal/domain"
)

// TextWriter renders events for humans.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a text writer on w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteStep prints a state transition.
func (t *TextWriter) WriteStep(step *domain.Step) error {
	if step.Detail != "" {
		_, err := fmt.Fprintf(t.w, "[%s] %s\n", step.State, step.Detail)
		return err
	}
	_, err := fmt.Fprintf(t.w, "[%s]\n", step.State)
	return err
}

// WriteReady prints the final session summary.
func (t *TextWriter) WriteReady(ready *domain.Ready) error {
	_, err := fmt.Fprintf(t.w,
		"Debug session ready.\n"+
			"  Package:  %s (pid %d)\n"+
			"  ABI:      %s\n"+
			"  Port:     localhost:%d\n"+
			"  Config:   %s\n",
		ready.Package, ready.PID, ready.ABI, ready.Port, ready.ConfigPath)
	return err
}
