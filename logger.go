// A category-gated logging facade. Minimum levels per category and per sink
// (console, file) come from the LOG_LEVEL environment variable; every call
// site decides once whether it is enabled and formats nothing when it is not.
package catlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the initialization parameters. The zero value is a console
// only logger on stdout with info as default level.
type Config struct {
	// FilePath enables the file sink; empty means no file sink for the life
	// of the logger (FILE_ entries of LOG_LEVEL are then ignored).
	FilePath string
	// Pattern is the output pattern of both sinks (DEFAULT_PATTERN when empty,
	// DEFAULT_GOLOG_PATTERN for the golog console).
	Pattern string
	// ConsoleLevel and FileLevel apply when no LOG_LEVEL entry matches a
	// category; LVL_UNKNOWN selects DEFAULT_LOG_LEVEL.
	ConsoleLevel LogLevel
	FileLevel    LogLevel
	// Console selects the console implementation.
	Console ConsoleBackend
	// Color enables ANSI level colors on the pattern console.
	Color bool
	// Rotation holds the file sink rotation limits.
	Rotation RotationConfig
	// ConsoleOutput replaces stdout as console stream.
	ConsoleOutput io.Writer
	// Fallback receives the diagnostics of the facility itself (malformed
	// LOG_LEVEL entries, failures of calls that do not return errors).
	// Default: os.Stderr; io.Discard silences them.
	Fallback io.Writer
	// Formatter formats templates; PrintfFormatter when nil.
	Formatter Formatter
	// EnvVar names the level variable; DEFAULT_ENV_VAR when empty.
	EnvVar string
}

func (c *Config) setDefaults() {
	if c.EnvVar == "" {
		c.EnvVar = DEFAULT_ENV_VAR
	}
	if c.Formatter == nil {
		c.Formatter = PrintfFormatter
	}
	if c.Fallback == nil {
		c.Fallback = os.Stderr
	}
	if c.ConsoleOutput == nil {
		c.ConsoleOutput = os.Stdout
	}
	c.Console = normBackend(c.Console)
}

// New creates a logger. The only possible error comes from preparing the
// file sink; the console sink always exists.
func New(cfg Config) (*Logger, error) {
	cfg.setDefaults()
	var file Sink
	if cfg.FilePath != "" {
		fs, err := NewFileSink(cfg.FilePath, cfg.Pattern, cfg.Rotation)
		if err != nil {
			return nil, err
		}
		file = fs
	}
	var console Sink
	switch cfg.Console {
	case CONSOLE_GOLOG:
		console = NewGologSink(cfg.ConsoleOutput, cfg.Pattern)
	default:
		console = NewConsoleSink(cfg.ConsoleOutput, cfg.Pattern, cfg.Color)
	}
	return newLogger(cfg, console, file), nil
}

// NewWithSinks creates a logger on caller-provided sinks. A nil file sink
// means no file sink: its level resolves to LVL_OFF for every category. A nil
// console sink is replaced by the pattern console on cfg.ConsoleOutput.
func NewWithSinks(cfg Config, console, file Sink) *Logger {
	cfg.setDefaults()
	if console == nil {
		console = NewConsoleSink(cfg.ConsoleOutput, cfg.Pattern, cfg.Color)
	}
	return newLogger(cfg, console, file)
}

func newLogger(cfg Config, console, file Sink) *Logger {
	l := &Logger{
		formatter: cfg.Formatter,
		fallbck:   newFallback(cfg.Fallback),
		now:       time.Now,
	}
	l.sinks[SINK_CONSOLE].sink = console
	l.sinks[SINK_FILE].sink = file
	envVar := cfg.EnvVar
	l.resolver = newResolver(resolverParams{
		lookup:     func() (string, bool) { return os.LookupEnv(envVar) },
		consoleDef: cfg.ConsoleLevel,
		fileDef:    cfg.FileLevel,
		hasFile:    file != nil,
		onWarnings: func(w []ParseWarning) { l.reportParseWarnings(envVar, w) },
	})
	l.gate = NewGate(l.resolver)
	return l
}

// newFallback wraps the fallback writer into a zap logger for the facility's
// own diagnostics.
func newFallback(w io.Writer) *zap.Logger {
	if w == io.Discard {
		return zap.NewNop()
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.CallerKey = zapcore.OmitKey
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(zapcore.AddSync(w)), zapcore.InfoLevel)
	return zap.New(core).Named("catlog")
}

// Gate returns the gate of the logger (for custom call-site helpers).
func (l *Logger) Gate() *Gate {
	return l.gate
}

// Resolver returns the level resolver of the logger.
func (l *Logger) Resolver() *Resolver {
	return l.resolver
}

// HasFile reports whether the logger has a file sink.
func (l *Logger) HasFile() bool {
	return l.sinks[SINK_FILE].sink != nil
}

// Close flushes and closes the sinks that support it. Calling it again is a
// no-op.
func (l *Logger) Close() (err error) {
	l.closed.Do(func() {
		var errs []error
		for id := range _SINK_MAX_for_checks_only {
			if c, ok := l.sinks[id].sink.(io.Closer); ok {
				if e := c.Close(); e != nil {
					errs = append(errs, fmt.Errorf("closing %s sink: %w", id, e))
				}
			}
		}
		_ = l.fallbck.Sync()
		err = errors.Join(errs...)
	})
	return err
}

/////////////////////////////////////////////////////////////////////////////////////////
// Explicit call sites

// LogAt logs through an explicit call site.
func (l *Logger) LogAt(site *Site, template string, args ...any) error {
	if l == nil {
		return errors.New(_ERROR_MESSAGE_LOGGER_IS_NIL)
	}
	d := l.gate.Decide(site)
	if !d.Any() {
		return nil
	}
	return l.emit(d, site.level, site.category, template, args, callerPC(1))
}

// LogOnceAt logs through an explicit call site the first time it is reached
// and does nothing afterwards. Only the first call can return an error.
func (l *Logger) LogOnceAt(site *Site, template string, args ...any) (err error) {
	if l == nil {
		return errors.New(_ERROR_MESSAGE_LOGGER_IS_NIL)
	}
	pc := callerPC(1)
	site.once.Do(func() {
		d := l.gate.Decide(site)
		err = l.emit(d, site.level, site.category, template, args, pc)
	})
	return err
}

// RunOnce runs action the first time the calling line is reached through this
// logger and reports whether it ran it.
func (l *Logger) RunOnce(action func()) bool {
	return l.runOnceAt(callerPC(1), action)
}

func (l *Logger) runOnceAt(pc uintptr, action func()) bool {
	o, ok := l.runOnce.Load(pc)
	if !ok {
		o, _ = l.runOnce.LoadOrStore(pc, new(Once))
	}
	return o.(*Once).Do(action)
}

/////////////////////////////////////////////////////////////////////////////////////////
// Process-wide default logger

var std struct {
	once   sync.Once
	logger *Logger
}

// Init configures the process-wide default logger. It takes effect only if
// the default logger does not exist yet; later calls return an error and
// change nothing. When the file sink cannot be prepared the default logger
// is still created, console only, and the error is returned.
func Init(cfg Config) (err error) {
	initialized := false
	std.once.Do(func() {
		initialized = true
		std.logger, err = New(cfg)
		if err != nil {
			cfg.FilePath = ""
			std.logger, _ = New(cfg)
		}
	})
	if !initialized {
		return errors.New(_ERROR_MESSAGE_ALREADY_INITIALIZED)
	}
	return err
}

// Default returns the process-wide logger, creating it from a zero Config
// when Init was never called.
func Default() *Logger {
	std.once.Do(func() {
		std.logger, _ = New(Config{})
	})
	return std.logger
}

// Close closes the default logger.
func Close() error {
	return Default().Close()
}

// Category returns a client of the default logger for the category. The
// default logger is looked up at each call, so the client may be created
// before Init.
func Category(name string) *Client {
	return &Client{category: name}
}

var defaultClient = Category("")

// Debugf logs at debug level in the default category.
func Debugf(template string, args ...any) {
	defaultClient.report(defaultClient.log(LVL_DEBUG, false, template, args))
}

// Infof logs at info level in the default category.
func Infof(template string, args ...any) {
	defaultClient.report(defaultClient.log(LVL_INFO, false, template, args))
}

// Warnf logs at warning level in the default category.
func Warnf(template string, args ...any) {
	defaultClient.report(defaultClient.log(LVL_WARNING, false, template, args))
}

// Errorf logs at error level in the default category.
func Errorf(template string, args ...any) {
	defaultClient.report(defaultClient.log(LVL_ERROR, false, template, args))
}

// LogE logs in the default category and returns format and sink errors.
func LogE(level LogLevel, template string, args ...any) error {
	return defaultClient.log(level, false, template, args)
}

// RunOnce runs action the first time the calling line is reached.
func RunOnce(action func()) bool {
	return Default().runOnceAt(callerPC(1), action)
}
