package elitech

/*------------------------------------------------------------------
 *
 * Purpose:	Advisory warning sink.
 *
 * Description:	The protocol is tolerant of a lot of device
 *		misbehavior: mismatched echoed offsets, missing or
 *		wrong checksums, out-of-range timezone bytes, and so
 *		on. None of that is fatal, but a caller driving the
 *		device should still be told about it. Rather than
 *		blending exceptions and console output the way the
 *		original does, every advisory goes through this single
 *		narrow interface.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Diagnostics receives advisory warnings. Fatal errors never go
// through here; they are returned as errors instead.
type Diagnostics interface {
	Warn(format string, args ...any)
}

// charmDiagnostics adapts charmbracelet/log to Diagnostics.
type charmDiagnostics struct {
	logger *log.Logger
}

// NewDiagnostics returns a Diagnostics backed by a charmbracelet/log
// logger at Warn level; each warning is logged as one formatted message.
func NewDiagnostics(logger *log.Logger) Diagnostics {
	if logger == nil {
		logger = log.Default()
	}
	return &charmDiagnostics{logger: logger}
}

func (d *charmDiagnostics) Warn(format string, args ...any) {
	d.logger.Warn(fmt.Sprintf(format, args...))
}

// discardDiagnostics drops every warning. Useful for tests that only
// care about the resulting data, not the advisories along the way.
type discardDiagnostics struct{}

func (discardDiagnostics) Warn(string, ...any) {}

// DiscardDiagnostics is a Diagnostics that ignores everything.
var DiscardDiagnostics Diagnostics = discardDiagnostics{}

// collectingDiagnostics records every warning verbatim, for tests that
// want to assert on what was reported.
type collectingDiagnostics struct {
	Messages []string
}

func (d *collectingDiagnostics) Warn(format string, args ...any) {
	d.Messages = append(d.Messages, fmt.Sprintf(format, args...))
}

// NewCollectingDiagnostics returns a Diagnostics that records every
// warning into its Messages slice.
func NewCollectingDiagnostics() *collectingDiagnostics {
	return &collectingDiagnostics{}
}
