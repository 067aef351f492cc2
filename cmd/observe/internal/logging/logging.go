// Package logging configures log/slog for the observe command line tool.
package logging

import (
	"io"
	"log/slog"
)

// Level extends slog.Level so it can be used as a go-flags option.
type Level struct {
	slog.Level
}

// UnmarshalFlag calls UnmarshalText for go-flags compatibility.
func (l *Level) UnmarshalFlag(value string) error {
	return l.UnmarshalText([]byte(value))
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
