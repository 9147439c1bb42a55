// Package cli holds the pieces shared by the command-line front ends:
// logger construction and data flag parsing.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger returns a slog logger writing through a charmbracelet handler
// with timestamps. verbose lowers the level to debug.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	return slog.New(log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	}))
}

// ParsePairs turns repeated KEY=VALUE flags into a map. Later keys win.
func ParsePairs(pairs []string) (map[string]string, error) {
	const errCtx = "parsing data pairs"

	out := make(map[string]string, len(pairs))

	for _, p := range pairs {
		key, val, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf(
				"%s: pair must be KEY=VALUE, got %q", errCtx, p,
			)
		}

		out[key] = val
	}

	return out, nil
}
