// Package log configures the process-wide structured logger.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs a text handler on stderr at the given level. Level names
// are the slog ones (debug, info, warn, error), case-insensitive; anything
// unrecognized falls back to info rather than failing a run over a flag typo.
func Setup(logLevel string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: ParseLevel(logLevel),
	})))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(logLevel string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(logLevel))); err != nil {
		return slog.LevelInfo
	}

	return level
}

// WithModule returns the default logger tagged with a module attribute, so
// every line can be traced back to the component that wrote it.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
