// Package sysutil holds process-level helpers shared by the CLI, config and
// HTTP layers.
package sysutil

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger installs the global zerolog logger writing to w, as JSON lines
// or, when pretty is set, through a human-readable console writer.
func SetupLogger(w io.Writer, level string, pretty bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	SetLogLevel(level)
}

// SetLogLevel sets the global zerolog level from a case-insensitive name
// ("warning" is accepted for warn). Empty or unknown names mean info.
func SetLogLevel(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel || lvl == zerolog.Disabled {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// ParseFlag reads a loose boolean such as a ?is_favorited= query value or a
// LOG_PRETTY setting. "1", "true", "yes", "y" and "on" are true; "0",
// "false", "no", "n" and "off" are false (case-insensitive, trimmed). ok is
// false for anything else so callers can fall back to a default.
func ParseFlag(v string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	}
	return false, false
}

// FirstNonEmpty returns the first value that is not blank, or "".
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
