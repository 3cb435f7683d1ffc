package catlog

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New_ConsoleOnly(t *testing.T) {
	t.Setenv(testEnvVar, "FILE_:debug,app:debug")
	out := &FakeWriter{}
	l, err := New(Config{EnvVar: testEnvVar, ConsoleOutput: out, Pattern: "%l %n %v", Fallback: io.Discard})
	require.NoError(t, err)
	assert.False(t, l.HasFile())

	c := l.Category("app")
	c.Debugf("dbg %s", "x")
	l.Category("other").Debugf("hidden")
	assert.Equal(t, "debug app dbg x\n", out.String())

	console, file := l.Resolver().Resolve("app")
	assert.Equal(t, LVL_DEBUG, console)
	assert.Equal(t, LVL_OFF, file)
	assert.NoError(t, l.Close())
	assert.NoError(t, l.Close())
}

func Test_New_WithFile(t *testing.T) {
	t.Setenv(testEnvVar, "db:error,FILE_db:debug")
	out := &FakeWriter{}
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l, err := New(Config{
		EnvVar:        testEnvVar,
		FilePath:      path,
		Pattern:       "%^%L%$ %n %v",
		ConsoleOutput: out,
		Color:         true,
		Fallback:      io.Discard,
	})
	require.NoError(t, err)
	require.True(t, l.HasFile())

	db := l.Category("db")
	db.Infof("connected to %s", "primary")
	db.Errorf("lost %s", "primary")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "I db connected to primary\nE db lost primary\n", string(data))
	assert.NotContains(t, out.String(), "connected")
	assert.Contains(t, out.String(), "lost primary")
	assert.Contains(t, out.String(), ANSI_COL_PRFX, "console colored on request")
}

func Test_New_FileLevelDefaults(t *testing.T) {
	t.Setenv(testEnvVar, "")
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(Config{
		EnvVar:        testEnvVar,
		FilePath:      path,
		ConsoleLevel:  LVL_ERROR,
		FileLevel:     LVL_DEBUG,
		ConsoleOutput: &FakeWriter{},
		Fallback:      io.Discard,
	})
	require.NoError(t, err)
	console, file := l.Resolver().Resolve("any")
	assert.Equal(t, LVL_ERROR, console)
	assert.Equal(t, LVL_DEBUG, file)
	require.NoError(t, l.Close())
}

func Test_New_FileError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	l, err := New(Config{FilePath: filepath.Join(blocker, "x", "app.log")})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func Test_New_Golog(t *testing.T) {
	t.Setenv(testEnvVar, "")
	out := &FakeWriter{}
	l, err := New(Config{EnvVar: testEnvVar, Console: CONSOLE_GOLOG, ConsoleOutput: out, Pattern: "%n %v", Fallback: io.Discard})
	require.NoError(t, err)
	l.Category("g").Warnf("via %s", "golog")
	assert.Contains(t, out.String(), "g via golog")
}

func Test_New_BraceFormatter(t *testing.T) {
	t.Setenv(testEnvVar, "")
	out := &FakeWriter{}
	l, err := New(Config{EnvVar: testEnvVar, ConsoleOutput: out, Pattern: "%v", Formatter: BraceFormatter, Fallback: io.Discard})
	require.NoError(t, err)
	l.Category("b").Infof("{} of {}", 1, 2)
	assert.Equal(t, "1 of 2\n", out.String())
}

func Test_NewWithSinks_NilConsole(t *testing.T) {
	t.Setenv(testEnvVar, "")
	out := &FakeWriter{}
	l := NewWithSinks(Config{EnvVar: testEnvVar, ConsoleOutput: out, Pattern: "%v", Fallback: io.Discard}, nil, nil)
	l.Category("c").Infof("hello")
	assert.Equal(t, "hello\n", out.String())
}

func Test_Logger_Close(t *testing.T) {
	l, _, _, _ := newTestLogger(t, "", false)
	closable := NewWriterSink(&closeRecorder{}, "%v", nil)
	l.sinks[SINK_FILE].sink = closable
	require.NoError(t, l.Close())
	assert.True(t, closable.closer == nil)

	l, _, _, _ = newTestLogger(t, "", false)
	l.sinks[SINK_FILE].sink = NewWriterSink(&closeRecorder{err: io.ErrClosedPipe}, "%v", nil)
	err := l.Close()
	assert.ErrorContains(t, err, "closing file sink")
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

type closeRecorder struct {
	FakeWriter
	err error
}

func (c *closeRecorder) Close() error { return c.err }

func Test_Logger_LogAt(t *testing.T) {
	l, console, _, _ := newTestLogger(t, "sites:warning", false)
	warn := NewSite("sites", LVL_WARNING)
	info := NewSite("sites", LVL_INFO)
	for i := range 3 {
		require.NoError(t, l.LogAt(warn, "w%d", i))
		require.NoError(t, l.LogAt(info, "i%d", i))
	}
	assert.Equal(t, []string{"w0", "w1", "w2"}, console.Messages())
	assert.Equal(t, int64(2), l.resolver.resolves.Load())
	assert.Contains(t, console.Records()[0].Source.File, "logger_test.go")

	var ferr *FormatError
	assert.ErrorAs(t, l.LogAt(warn, "%d"), &ferr)
	assert.NoError(t, l.LogAt(info, "%d"), "disabled site does not format")

	var nilLogger *Logger
	assert.EqualError(t, nilLogger.LogAt(warn, "x"), _ERROR_MESSAGE_LOGGER_IS_NIL)
	assert.EqualError(t, nilLogger.LogOnceAt(warn, "x"), _ERROR_MESSAGE_LOGGER_IS_NIL)
}

func Test_Logger_LogOnceAt(t *testing.T) {
	l, console, _, _ := newTestLogger(t, "", false)
	site := NewSite("once", LVL_ERROR)
	for i := range 3 {
		require.NoError(t, l.LogOnceAt(site, "only %d", i))
	}
	assert.Equal(t, []string{"only 0"}, console.Messages())

	bad := NewSite("once", LVL_ERROR)
	assert.Error(t, l.LogOnceAt(bad, "%d"))
	assert.NoError(t, l.LogOnceAt(bad, "%d"))
}

func Test_Logger_RunOnce(t *testing.T) {
	l, _, _, _ := newTestLogger(t, "", false)
	runs := 0
	for range 4 {
		l.RunOnce(func() { runs++ })
	}
	assert.Equal(t, 1, runs)
	assert.True(t, l.RunOnce(func() { runs++ }), "other line, own guard")
	assert.Equal(t, 2, runs)

	// independent per logger
	l2, _, _, _ := newTestLogger(t, "", false)
	ran := 0
	for _, lg := range []*Logger{l, l2, l, l2} {
		lg.RunOnce(func() { ran++ })
	}
	assert.Equal(t, 2, ran)
}

// The default logger is process-wide: this is the only test touching it.
func Test_Default(t *testing.T) {
	t.Setenv(DEFAULT_ENV_VAR, ":warning,pkg:debug")
	out := &SyncWriter{}
	early := Category("pkg")

	require.NoError(t, Init(Config{ConsoleOutput: out, Pattern: "%L %n %v", Fallback: io.Discard}))
	assert.EqualError(t, Init(Config{}), _ERROR_MESSAGE_ALREADY_INITIALIZED)
	d := Default()
	require.NotNil(t, d)
	assert.Same(t, d, Default())
	assert.Same(t, d, early.Logger())

	early.Debugf("early %d", 1)
	Infof("hidden")
	Warnf("w")
	Errorf("e %s", "x")
	Debugf("hidden")
	assert.Error(t, LogE(LVL_ERROR, "%d"))
	assert.NoError(t, LogE(LVL_INFO, "%d"))

	runs := 0
	for range 3 {
		RunOnce(func() { runs++ })
	}
	assert.Equal(t, 1, runs)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{"D pkg early 1", "W  w", "E  e x"}, lines)
	assert.NoError(t, Close())
}
