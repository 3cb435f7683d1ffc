package catlog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Formatter turns a template and its arguments into the message text. It is
// only called for statements enabled on at least one sink.
type Formatter interface {
	Format(template string, args ...any) (string, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(template string, args ...any) (string, error)

func (f FormatterFunc) Format(template string, args ...any) (string, error) {
	return f(template, args...)
}

// FormatError reports a template that does not fit its arguments.
type FormatError struct {
	Template     string
	Placeholders int // -1 when not countable (explicit argument indexes)
	Args         int
	Reason       string
}

func (e *FormatError) Error() string {
	s := "format error in `" + e.Template + "`: " + e.Reason
	if e.Placeholders >= 0 {
		s += " (" + strconv.Itoa(e.Placeholders) + " placeholders, " + strconv.Itoa(e.Args) + " arguments)"
	}
	return s
}

var (
	// PrintfFormatter formats with fmt verbs and rejects argument count
	// mismatches instead of emitting %!(MISSING) / %!(EXTRA) markers.
	PrintfFormatter Formatter = printfFormatter{}
	// BraceFormatter substitutes "{}" (automatic) or "{N}" (manual) fields
	// with the fmt %v form of the arguments; "{{" and "}}" are literal braces.
	BraceFormatter Formatter = braceFormatter{}
)

/////////////////////////////////////////////////////////////////////////////////////////

type printfFormatter struct{}

func (printfFormatter) Format(template string, args ...any) (string, error) {
	n, indexed, reason := countPrintfArgs(template)
	if reason != "" {
		return "", &FormatError{Template: template, Placeholders: n, Args: len(args), Reason: reason}
	}
	if !indexed && n != len(args) {
		return "", &FormatError{Template: template, Placeholders: n, Args: len(args), Reason: "argument count mismatch"}
	}
	s := fmt.Sprintf(template, args...)
	if indexed && (strings.Contains(s, "(BADINDEX)") || strings.Contains(s, "(MISSING)")) {
		return "", &FormatError{Template: template, Placeholders: -1, Args: len(args), Reason: "bad argument index"}
	}
	return s, nil
}

// countPrintfArgs counts the arguments a fmt template consumes, '*' widths
// and precisions included. indexed is true when explicit [n] indexes are
// used, in which case the count is not meaningful.
func countPrintfArgs(template string) (n int, indexed bool, reason string) {
	end := len(template)
	for i := 0; i < end; {
		if template[i] != '%' {
			i++
			continue
		}
		i++
		if i < end && template[i] == '%' {
			i++
			continue
		}
		for i < end && strings.IndexByte("+-# 0", template[i]) >= 0 {
			i++
		}
		if i < end && template[i] == '[' {
			return n, true, ""
		}
		if i < end && template[i] == '*' {
			n++
			i++
		}
		for i < end && template[i] >= '0' && template[i] <= '9' {
			i++
		}
		if i < end && template[i] == '.' {
			i++
			if i < end && template[i] == '*' {
				n++
				i++
			}
			for i < end && template[i] >= '0' && template[i] <= '9' {
				i++
			}
		}
		if i < end && template[i] == '[' {
			return n, true, ""
		}
		if i >= end {
			return n, false, "verb missing at end of template"
		}
		_, size := utf8.DecodeRuneInString(template[i:])
		i += size
		n++
	}
	return n, false, ""
}

/////////////////////////////////////////////////////////////////////////////////////////

type braceFormatter struct{}

func (braceFormatter) Format(template string, args ...any) (string, error) {
	var sb strings.Builder
	sb.Grow(len(template) + 16*len(args))
	auto, manual := 0, false
	used := make([]bool, len(args))
	fail := func(reason string) (string, error) {
		return "", &FormatError{Template: template, Placeholders: auto, Args: len(args), Reason: reason}
	}
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			sb.WriteByte('{')
			i++
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			sb.WriteByte('}')
			i++
		case c == '}':
			return fail("single '}' in template")
		case c == '{':
			closing := strings.IndexByte(template[i:], '}')
			if closing < 0 {
				return fail("unterminated replacement field")
			}
			field := template[i+1 : i+closing]
			i += closing
			idx := auto
			if field == "" {
				if manual {
					return fail("cannot switch from manual to automatic field numbering")
				}
				auto++
			} else {
				if auto > 0 {
					return fail("cannot switch from automatic to manual field numbering")
				}
				v, err := strconv.Atoi(field)
				if err != nil || v < 0 {
					return fail("unsupported replacement field `{" + field + "}`")
				}
				manual, idx = true, v
			}
			if idx >= len(args) {
				return fail("argument index out of range")
			}
			used[idx] = true
			fmt.Fprint(&sb, args[idx])
		default:
			sb.WriteByte(c)
		}
	}
	for _, u := range used {
		if !u {
			return fail("argument count mismatch")
		}
	}
	return sb.String(), nil
}
