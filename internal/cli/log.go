// Package cli implements the gridtrace command-line interface.
//
// The commands load a network file, run traversals over it and print or
// render the result. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - trace: walk the network from one or more start equipment
//   - reach: list equipment within a number of connections
//   - render: draw the network with a trace overlay as SVG or DOT
//   - validate: check a network file for modelling errors
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes the engine's own run and fork events. The logger is passed
// through context.Context with [trace.WithLogger].
//
// # Configuration
//
// Defaults for the traversal flags can be set in a TOML file, read from
// --config or from gridtrace.toml in the working directory. Flags given on
// the command line win.
//
// [trace.WithLogger]: github.com/matzehuels/gridtrace/pkg/trace.WithLogger
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// the elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Loaded 42 equipment from feeder.yaml (3ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
