package catlog

/*
Core data types of the facility:
  - basetype and its typed aliases (levels, sink ids, console backends)
  - Decision: the cached per-call-site answer of the gate
  - SourceInfo and Record: what a sink receives for one log call
  - Site: the process-lifetime cell owned by one call site
  - Logger and Client: the facility itself and its per-category handles
*/

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type basetype byte // basetype is the underlying byte-sized representation used for enums

type LogLevel basetype       // Log severity (ordered, alias for byte)
type SinkID basetype         // Output destination id
type ConsoleBackend basetype // Console sink implementation selector

// Decision tells which sinks are enabled for a call site.
type Decision struct {
	Console bool
	File    bool
}

// Any reports whether at least one sink is enabled.
func (d Decision) Any() bool {
	return d.Console || d.File
}

// Enabled reports whether the given sink is enabled by the decision.
func (d Decision) Enabled(id SinkID) bool {
	switch id {
	case SINK_CONSOLE:
		return d.Console
	case SINK_FILE:
		return d.File
	}
	return false
}

// SourceInfo describes the code location of a single log call.
type SourceInfo struct {
	File     string
	Function string
	Line     int
}

// Record is the unit handed to sinks: an already formatted message plus the
// metadata of the call that produced it.
type Record struct {
	Time     time.Time
	Level    LogLevel
	Category string
	Message  string
	Source   SourceInfo
}

// Site is the state owned by one call site for the whole process lifetime.
// The gate decision is computed on first use and never changes afterwards;
// the once-guard is independent from it.
//
// Sites are created with NewSite (usually at package scope) or implicitly by
// Client methods, which key them by program counter.
type Site struct {
	level    LogLevel
	category string
	gate     struct {
		once     sync.Once
		decision Decision
	}
	once Once
}

// Logger is the facility: level resolution, per-call-site gating, lazy
// formatting and dispatch to the console and file sinks.
type Logger struct {
	resolver  *Resolver
	gate      *Gate
	formatter Formatter
	sinks     [_SINK_MAX_for_checks_only]sinkSlot
	fallbck   *zap.Logger // diagnostics of the facility itself
	runOnce   sync.Map    // caller pc -> *Once, used by RunOnce
	now       func() time.Time
	closed    sync.Once
}

// sinkSlot holds one configured sink. A sink that panicked once is disabled
// for further writes.
type sinkSlot struct {
	sink     Sink
	disabled atomic.Bool
}

// Client is a lightweight handle logging into one category. A Client with a
// nil logger resolves the process-wide default logger at call time, so
// package-level clients may be declared before Init.
type Client struct {
	logger   *Logger
	category string
}
