package bench

import (
	"io"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
)

// Sink receives the tab-separated export of a report.
type Sink interface {
	Export(data string) error
}

// ClipboardSink copies the export to the system clipboard.
type ClipboardSink struct{}

func (ClipboardSink) Export(data string) error {
	return errors.Wrap(clipboard.WriteAll(data), "writing clipboard")
}

// WriterSink writes the export to W.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Export(data string) error {
	_, err := io.WriteString(s.W, data)
	return errors.Wrap(err, "writing export")
}

// NopSink discards the export.
type NopSink struct{}

func (NopSink) Export(string) error { return nil }
