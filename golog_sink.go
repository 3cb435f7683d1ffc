package catlog

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/kataras/golog"
)

// GologSink is a console sink printing through a github.com/kataras/golog
// logger, which adds its own level tag and timestamp. The pattern renders
// the rest of the line (DEFAULT_GOLOG_PATTERN when empty).
//
// golog does not report write failures, so the output is wrapped to capture
// the error of the write made on behalf of each record.
type GologSink struct {
	mu      sync.Mutex
	logger  *golog.Logger
	out     *errCatcher
	pattern *Pattern
	msgbuf  *bytes.Buffer
}

// errCatcher remembers the last write error of the wrapped writer.
type errCatcher struct {
	w   io.Writer
	err error
}

func (c *errCatcher) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if err != nil {
		c.err = err
	}
	return n, err
}

// NewGologSink creates a golog-backed console sink on w (stdout when nil).
func NewGologSink(w io.Writer, pattern string) *GologSink {
	if w == nil {
		w = os.Stdout
	}
	if pattern == "" {
		pattern = DEFAULT_GOLOG_PATTERN
	}
	s := &GologSink{
		logger:  golog.New(),
		out:     &errCatcher{w: w},
		pattern: CompilePattern(pattern),
		msgbuf:  bytes.NewBuffer(make([]byte, 0, DEFAULT_OUT_BUFF)),
	}
	s.logger.SetOutput(s.out)
	// filtering is done by the gate, golog prints whatever reaches it
	s.logger.SetLevel("debug")
	return s
}

// Logger returns the underlying golog logger for further customization
// (prefix, time format). Its level and output must not be changed.
func (s *GologSink) Logger() *golog.Logger {
	return s.logger
}

// WriteRecord prints rec through golog at the matching golog level.
func (s *GologSink) WriteRecord(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgbuf.Reset()
	s.pattern.Render(s.msgbuf, rec, nil)
	line := bytes.TrimSuffix(s.msgbuf.Bytes(), []byte{'\n'})
	s.out.err = nil
	s.logger.Log(gologLevel(rec.Level), string(line))
	return s.out.err
}

func gologLevel(level LogLevel) golog.Level {
	switch level {
	case LVL_DEBUG:
		return golog.DebugLevel
	case LVL_WARNING:
		return golog.WarnLevel
	case LVL_ERROR:
		return golog.ErrorLevel
	}
	return golog.InfoLevel
}
