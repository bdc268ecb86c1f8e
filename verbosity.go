package cif

import (
	"log"
	"os"
	"sync/atomic"
)

// Verbosity levels, per spec §6: 0 silent (the default in strict mode),
// 1 warnings, 2 operation summaries, 3 per-condition rewrites, 4
// per-validator diagnostics, 5 dictionary-load traces.
const (
	VerbositySilent = iota
	VerbosityWarnings
	VerbositySummaries
	VerbosityRewrites
	VerbosityDiagnostics
	VerbosityTraces
)

var verbosity atomic.Int32

// SetVerbosity adjusts the package-wide verbosity knob. It is safe to
// call concurrently with any other package operation.
func SetVerbosity(level int) { verbosity.Store(int32(level)) }

// Verbosity returns the current package-wide verbosity level.
func Verbosity() int { return int(verbosity.Load()) }

var logger = log.New(os.Stderr, "cif: ", 0)

func logAt(level int, format string, args ...any) {
	if int(verbosity.Load()) >= level {
		logger.Printf(format, args...)
	}
}
