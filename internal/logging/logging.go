// Package logging builds the zerolog logger shared by the CLI and the server.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Log formats
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options selects the logger level and output format.
type Options struct {
	Level  string // debug, info, warn, error; unknown values fall back to info
	Format string // json or console
	Caller bool   // include file:line of the call site
}

// New returns a logger writing to w, or to stderr when w is nil.
func New(opts Options, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	out := w
	if opts.Format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !isTerminal(w)}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
