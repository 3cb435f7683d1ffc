package catlog

/*
Package-wide constants, enums and helper utilities:
  - default values (environment variable, pattern, buffer sizes)
  - level, sink and console backend enums
  - ANSI/color related constants and per-level name/color maps
  - normalization helpers
*/

import (
	"strings"
)

const (
	// Default values for short init forms
	DEFAULT_ENV_VAR       = "LOG_LEVEL"
	DEFAULT_LOG_LEVEL     = LVL_INFO
	DEFAULT_PATTERN       = "[%^%L%$ %s:%# (%!) %H:%M:%S.%e] %v"
	DEFAULT_GOLOG_PATTERN = "%s:%# (%!) %v"
	DEFAULT_OUT_BUFF      = 256 // initial buffer size for sink output text
	FILE_MARKER           = "FILE_"
)

const (
	// Log level values. LVL_UNKNOWN marks an unset level, LVL_OFF is the
	// sentinel that enables nothing. The trailing _LVL_MAX_for_checks_only is
	// used as an exclusive upper bound for normalization checks.
	LVL_UNKNOWN LogLevel = iota
	LVL_DEBUG
	LVL_INFO
	LVL_WARNING
	LVL_ERROR
	LVL_OFF
	_LVL_MAX_for_checks_only
)

const (
	SINK_CONSOLE SinkID = iota
	SINK_FILE
	_SINK_MAX_for_checks_only
)

const (
	CONSOLE_PATTERN ConsoleBackend = iota // pattern-rendered text to ConsoleOutput
	CONSOLE_GOLOG                         // github.com/kataras/golog printer
	_CONSOLE_MAX_for_checks_only
)

const (
	// ANSI colored text fragments prefix/suffix used when colors are requested.
	// For a colored piece of text the sequence will be:
	// ANSI_COL_PRFX + colorSpec + ANSI_COL_SUFX + text + ANSI_COL_RESET
	ANSI_COL_PRFX  = "\033["
	ANSI_COL_SUFX  = "m"
	ANSI_COL_RESET = ANSI_COL_PRFX + "0" + ANSI_COL_SUFX
)

const (
	// Error messages used across logger operations (used for testing).
	_ERROR_MESSAGE_ALREADY_INITIALIZED = "default logger is already initialized"
	_ERROR_MESSAGE_SINK_DISABLED       = "sink is disabled after panic"
	_ERROR_MESSAGE_LOGGER_IS_NIL       = "logger is nil"
	_ERROR_UNKNOWN_PANIC_TEXT          = "[no panic description]"
)

/////////////////////////////////////////////////////////////////////////////////////////

// LevelMap is a fixed-size array with one entry per log level. Used for
// level names and colors.
type LevelMap [_LVL_MAX_for_checks_only]string

// Predefined log level full names map (%l pattern flag, String())
var LevelFullNames = &LevelMap{
	"unknown", //LVL_UNKNOWN
	"debug",   //LVL_DEBUG
	"info",    //LVL_INFO
	"warning", //LVL_WARNING
	"error",   //LVL_ERROR
	"off",     //LVL_OFF
}

// Predefined log level short names map (%L pattern flag)
var LevelShortNames = &LevelMap{
	"?", //LVL_UNKNOWN
	"D", //LVL_DEBUG
	"I", //LVL_INFO
	"W", //LVL_WARNING
	"E", //LVL_ERROR
	"O", //LVL_OFF
}

// Predefined color map for ANSI terminal (%^...%$ pattern range)
var LevelColorOnBlackMap = &LevelMap{
	"9;90", //LVL_UNKNOWN
	"0;90", //LVL_DEBUG
	"0;97", //LVL_INFO
	"0;33", //LVL_WARNING
	"0;91", //LVL_ERROR
	"2;90", //LVL_OFF
}

// String returns the lowercase level name ("debug", "info", "warning", "error").
func (l LogLevel) String() string {
	return LevelFullNames[normLevel(l)]
}

// ParseLevel converts a level name into a LogLevel. Names are matched
// case-insensitively; "warn" and "err" are accepted as aliases and "off"
// yields LVL_OFF. The second result is false for unknown names.
func ParseLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LVL_DEBUG, true
	case "info":
		return LVL_INFO, true
	case "warning", "warn":
		return LVL_WARNING, true
	case "error", "err":
		return LVL_ERROR, true
	case "off":
		return LVL_OFF, true
	}
	return LVL_UNKNOWN, false
}

// Generic byte normalization helper.
func norm_byte[T ~byte](val, overlimit, def T) T {
	if val < overlimit {
		return val
	} else {
		return def
	}
}

// Ensures a provided LogLevel is within the valid range
func normLevel(level LogLevel) LogLevel {
	return norm_byte(level, _LVL_MAX_for_checks_only, LVL_UNKNOWN)
}

// Ensures a provided ConsoleBackend is within the valid range
func normBackend(b ConsoleBackend) ConsoleBackend {
	return norm_byte(b, _CONSOLE_MAX_for_checks_only, CONSOLE_PATTERN)
}

// isLoggable reports whether messages may be logged at the level at all.
func isLoggable(level LogLevel) bool {
	return level > LVL_UNKNOWN && level < LVL_OFF
}

// Converts a panic value into a compact readable string (used when
// translating panics into errors or fallback messages)
func panicDesc(panic any) (errtext string) {
	switch v := panic.(type) {
	case string:
		errtext = ": `" + v + "`"
	case error:
		errtext = ": (error) `" + v.Error() + "`"
	default:
		errtext = " " + _ERROR_UNKNOWN_PANIC_TEXT
	}
	return errtext
}
