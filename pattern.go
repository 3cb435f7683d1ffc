package catlog

import (
	"bytes"
	"path/filepath"
	"strconv"
)

/*
Output patterns use spdlog-style flags:

	%v  message                     %Y  year (4 digits)
	%l  level name ("warning")      %m  month (01-12)
	%L  level letter ("W")          %d  day (01-31)
	%n  category                    %H  hour (00-23)
	%s  source file base name       %M  minute (00-59)
	%g  source file full path       %S  second (00-59)
	%#  source line                 %e  milliseconds (000-999)
	%!  source function             %f  microseconds (000000-999999)
	%^  color range start           %$  color range end
	%%  literal '%'

Unknown flags are copied verbatim. The color range is only rendered when the
sink has a color map.
*/

// Pattern is a compiled output pattern. It is immutable.
type Pattern struct {
	source string
	tokens []patternToken
}

type patternToken struct {
	flag    byte   // 0 for literal text
	literal string // literal text when flag == 0
}

// CompilePattern compiles an output pattern; empty selects DEFAULT_PATTERN.
func CompilePattern(pattern string) *Pattern {
	if pattern == "" {
		pattern = DEFAULT_PATTERN
	}
	p := &Pattern{source: pattern}
	start := 0
	flush := func(end int) {
		if end > start {
			p.tokens = append(p.tokens, patternToken{literal: pattern[start:end]})
		}
	}
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' || i+1 >= len(pattern) {
			continue
		}
		flag := pattern[i+1]
		switch flag {
		case 'v', 'l', 'L', 'n', 's', 'g', '#', '!', 'Y', 'm', 'd', 'H', 'M', 'S', 'e', 'f', '^', '$':
			flush(i)
			p.tokens = append(p.tokens, patternToken{flag: flag})
		case '%':
			flush(i)
			p.tokens = append(p.tokens, patternToken{literal: "%"})
		default:
			// unknown flag stays in the literal run
			i++
			continue
		}
		i++
		start = i + 1
	}
	flush(len(pattern))
	return p
}

// String returns the pattern source.
func (p *Pattern) String() string {
	return p.source
}

// Render appends the textual form of rec to buf, followed by a newline.
// colormap may be nil to render without colors.
func (p *Pattern) Render(buf *bytes.Buffer, rec *Record, colormap *LevelMap) *bytes.Buffer {
	level := normLevel(rec.Level)
	colored := false
	var num [20]byte
	pad := func(v, width int) {
		b := strconv.AppendInt(num[:0], int64(v), 10)
		for i := len(b); i < width; i++ {
			buf.WriteByte('0')
		}
		buf.Write(b)
	}
	for _, tok := range p.tokens {
		switch tok.flag {
		case 0:
			buf.WriteString(tok.literal)
		case 'v':
			buf.WriteString(rec.Message)
		case 'l':
			buf.WriteString(LevelFullNames[level])
		case 'L':
			buf.WriteString(LevelShortNames[level])
		case 'n':
			buf.WriteString(rec.Category)
		case 's':
			if rec.Source.File != "" {
				buf.WriteString(filepath.Base(rec.Source.File))
			}
		case 'g':
			buf.WriteString(rec.Source.File)
		case '#':
			pad(rec.Source.Line, 0)
		case '!':
			buf.WriteString(rec.Source.Function)
		case 'Y':
			pad(rec.Time.Year(), 4)
		case 'm':
			pad(int(rec.Time.Month()), 2)
		case 'd':
			pad(rec.Time.Day(), 2)
		case 'H':
			pad(rec.Time.Hour(), 2)
		case 'M':
			pad(rec.Time.Minute(), 2)
		case 'S':
			pad(rec.Time.Second(), 2)
		case 'e':
			pad(rec.Time.Nanosecond()/1e6, 3)
		case 'f':
			pad(rec.Time.Nanosecond()/1e3, 6)
		case '^':
			if colormap != nil && !colored {
				colored = true
				buf.WriteString(ANSI_COL_PRFX)
				buf.WriteString(colormap[level])
				buf.WriteString(ANSI_COL_SUFX)
			}
		case '$':
			if colored {
				colored = false
				buf.WriteString(ANSI_COL_RESET)
			}
		}
	}
	if colored {
		// unterminated color range
		buf.WriteString(ANSI_COL_RESET)
	}
	buf.WriteByte('\n')
	return buf
}
