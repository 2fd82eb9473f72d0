package pkg

import (
	"io"
	"log/slog"
)

func NewLogger(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, nil)
	return slog.New(handler)
}

// NewDiscardLogger returns a logger whose output is thrown away, for tests.
func NewDiscardLogger() *slog.Logger {
	return NewLogger(io.Discard)
}
