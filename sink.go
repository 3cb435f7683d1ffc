package catlog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

/*
Sinks are the write side of the facility. A sink receives fully formatted
records and must serialize its own writes: one record is written with a
single Write call on the underlying stream while the sink mutex is held, so
records from different goroutines never interleave.

WriterSink renders records with a Pattern, optionally colored, and covers
both the console (stdout) and the file (lumberjack rotating writer).
GologSink is an alternative console backend, see golog_sink.go.
*/

// Sink writes one record. Errors are returned to the caller, never dropped.
type Sink interface {
	WriteRecord(rec *Record) error
}

// SinkWriteError reports a failed write to one sink.
type SinkWriteError struct {
	Sink SinkID
	Err  error
}

func (e *SinkWriteError) Error() string {
	return "writing log to " + e.Sink.String() + " sink: " + e.Err.Error()
}

func (e *SinkWriteError) Unwrap() error {
	return e.Err
}

func (id SinkID) String() string {
	switch id {
	case SINK_CONSOLE:
		return "console"
	case SINK_FILE:
		return "file"
	}
	return "sink#" + strconv.Itoa(int(id))
}

// RotationConfig holds the lumberjack limits of the file sink. Zero values
// keep lumberjack defaults (100 MB, no age or backup limit, no compression).
type RotationConfig struct {
	MaxSizeMB  int  // megabytes before rotation
	MaxBackups int  // rotated files to keep
	MaxAgeDays int  // days to keep rotated files
	Compress   bool // gzip rotated files
	LocalTime  bool // local time in backup names
}

/////////////////////////////////////////////////////////////////////////////////////////

// WriterSink renders records with a pattern and writes them to a stream.
type WriterSink struct {
	mu       sync.Mutex
	out      zapcore.WriteSyncer
	closer   io.Closer
	pattern  *Pattern
	colormap *LevelMap // nil: no colors
	msgbuf   *bytes.Buffer
}

// NewWriterSink creates a sink writing to w. An empty pattern selects
// DEFAULT_PATTERN, a nil colormap disables colors.
func NewWriterSink(w io.Writer, pattern string, colormap *LevelMap) *WriterSink {
	s := &WriterSink{
		out:      zapcore.AddSync(w),
		pattern:  CompilePattern(pattern),
		colormap: colormap,
		msgbuf:   bytes.NewBuffer(make([]byte, 0, DEFAULT_OUT_BUFF)),
	}
	if c, ok := w.(io.Closer); ok && w != os.Stdout && w != os.Stderr {
		s.closer = c
	}
	return s
}

// NewConsoleSink creates the default console sink on w (stdout when nil).
func NewConsoleSink(w io.Writer, pattern string, color bool) *WriterSink {
	if w == nil {
		w = os.Stdout
	}
	var colormap *LevelMap
	if color {
		colormap = LevelColorOnBlackMap
	}
	return NewWriterSink(w, pattern, colormap)
}

// NewFileSink creates a file sink appending to path, rotated by lumberjack.
// Missing parent directories are created. File output is never colored.
func NewFileSink(path, pattern string, rot RotationConfig) (*WriterSink, error) {
	if path == "" {
		return nil, errors.New("file sink path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return NewWriterSink(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAgeDays,
		Compress:   rot.Compress,
		LocalTime:  rot.LocalTime,
	}, pattern, nil), nil
}

// WriteRecord renders and writes rec as a single line.
func (s *WriterSink) WriteRecord(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgbuf.Reset()
	s.pattern.Render(s.msgbuf, rec, s.colormap)
	n, err := s.out.Write(s.msgbuf.Bytes())
	if err != nil {
		return errors.New("error writing log to output (" + strconv.Itoa(n) + " bytes written): " + err.Error())
	}
	return nil
}

// Sync flushes the underlying stream.
func (s *WriterSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Sync()
}

// Close closes the underlying stream when the sink owns a closable one
// (files); stdout and stderr are left open.
func (s *WriterSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
