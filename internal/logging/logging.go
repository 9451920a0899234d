// Package logging builds the JSON line logger shared by every component.
// Each record is one object per line with "ts", "level" and "msg" keys,
// matching the access log written by the HTTP middleware.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// New returns a logger that writes JSON lines to w with timestamps in loc.
func New(w io.Writer, loc *time.Location) *slog.Logger {
	return NewWithLevel(w, loc, slog.LevelInfo)
}

// NewWithLevel is New with an explicit minimum level.
func NewWithLevel(w io.Writer, loc *time.Location, level slog.Leveler) *slog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
			case slog.LevelKey:
				return slog.String(slog.LevelKey, strings.ToLower(a.Value.String()))
			}
			return a
		},
	})
	return slog.New(h)
}

// Component returns a child logger tagged with the component name.
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With("component", name)
}

// Discard is a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
