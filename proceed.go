package catlog

import (
	"errors"
	"runtime"

	"go.uber.org/zap"
)

/*
Dispatching of gated log calls:
  - formatting (once, only when a sink is enabled)
  - building the Record with the caller's source location
  - writing to every enabled sink with panic protection
  - reporting failures to the fallback diagnostics logger for callers that
    do not take the error
*/

// emit is the dispatcher behind every log call. With no sink enabled it
// returns immediately without formatting, resolving the caller frame or
// touching any sink. Otherwise the message is formatted exactly once and
// written to each enabled sink. Format failures are returned as *FormatError
// and nothing is written; sink failures are returned as joined
// *SinkWriteError values.
func (l *Logger) emit(d Decision, level LogLevel, category, template string, args []any, pc uintptr) error {
	if !d.Any() {
		return nil
	}
	msg, err := l.formatter.Format(template, args...)
	if err != nil {
		return err
	}
	rec := Record{
		Time:     l.now(),
		Level:    level,
		Category: category,
		Message:  msg,
		Source:   sourceAt(pc),
	}
	return l.writeToSinks(d, &rec)
}

// Emit dispatches a message for an already taken decision with an explicit
// source location. It is the building block for custom call-site helpers;
// the decision normally comes from Gate.Decide.
func (l *Logger) Emit(d Decision, level LogLevel, category string, src SourceInfo, template string, args ...any) error {
	if !d.Any() {
		return nil
	}
	msg, err := l.formatter.Format(template, args...)
	if err != nil {
		return err
	}
	rec := Record{
		Time:     l.now(),
		Level:    level,
		Category: category,
		Message:  msg,
		Source:   src,
	}
	return l.writeToSinks(d, &rec)
}

// writeToSinks walks the sinks in id order and writes rec to each one the
// decision enables. Missing sinks are skipped silently.
func (l *Logger) writeToSinks(d Decision, rec *Record) error {
	var errs []error
	for id := range _SINK_MAX_for_checks_only {
		if !d.Enabled(id) {
			continue
		}
		slot := &l.sinks[id]
		if slot.sink == nil {
			continue
		}
		if err := slot.write(rec); err != nil {
			errs = append(errs, &SinkWriteError{Sink: id, Err: err})
		}
	}
	return errors.Join(errs...)
}

// write writes rec to the slot's sink. A panicking sink is disabled for
// further writes and the panic is returned as an error.
func (s *sinkSlot) write(rec *Record) (err error) {
	if s.disabled.Load() {
		return errors.New(_ERROR_MESSAGE_SINK_DISABLED)
	}
	defer func() {
		if r := recover(); r != nil {
			s.disabled.Store(true)
			err = errors.New("panic writing log to sink" + panicDesc(r))
		}
	}()
	return s.sink.WriteRecord(rec)
}

// sourceAt resolves the function, file and line of a caller pc.
func sourceAt(pc uintptr) SourceInfo {
	if pc == 0 {
		return SourceInfo{}
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	return SourceInfo{File: frame.File, Function: frame.Function, Line: frame.Line}
}

// callerPC returns the pc of the frame skip levels above the caller of
// callerPC (skip 0 is the function calling callerPC).
func callerPC(skip int) uintptr {
	var pcs [1]uintptr
	if runtime.Callers(skip+2, pcs[:]) < 1 {
		return 0
	}
	return pcs[0]
}

// handleLogWriteError reports an error of a log call whose caller does not
// take errors to the fallback diagnostics logger.
func (l *Logger) handleLogWriteError(category string, err error) {
	if err == nil {
		return
	}
	l.fallbck.Warn("log call failed", zap.String("category", category), zap.Error(err))
}

// reportParseWarnings logs skipped LOG_LEVEL entries, once per resolver.
func (l *Logger) reportParseWarnings(envVar string, warnings []ParseWarning) {
	for _, w := range warnings {
		l.fallbck.Warn("ignoring malformed log level entry",
			zap.String("variable", envVar),
			zap.Int("index", w.Index),
			zap.String("entry", w.Entry),
			zap.String("reason", w.Reason))
	}
}
