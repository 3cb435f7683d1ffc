package catlog

import (
	"strconv"
	"strings"
)

/*
Parsing of the LOG_LEVEL value.

Grammar: comma-separated entries, each entry is `pattern` or `pattern:level`.
A pattern is an exact category name, a prefix ending in '*', or empty / "*"
to match every category. Patterns starting with FILE_ only apply to the file
sink (the marker is stripped before matching), all other entries only apply
to the console.

Entries are scanned left to right and the last matching entry wins.
Malformed entries are skipped and recorded as ParseWarning values, the scan
always continues. Categories containing ',' or ':' cannot be addressed.

	LOG_LEVEL="net*:debug,net.dns:warning,FILE_:error,FILE_db:debug"
*/

// ParseWarning describes one LOG_LEVEL entry that was ignored.
type ParseWarning struct {
	Entry  string // raw entry text
	Index  int    // position of the entry in the list (0-based)
	Reason string
}

func (w ParseWarning) String() string {
	return "entry #" + strconv.Itoa(w.Index) + " `" + w.Entry + "`: " + w.Reason
}

// specEntry is one usable LOG_LEVEL entry.
type specEntry struct {
	pattern string   // pattern without FILE_ marker and trailing '*'
	prefix  bool     // pattern was a prefix ('*' suffix)
	file    bool     // FILE_ entry
	level   LogLevel // level to apply on match
}

// LevelSpec is the parsed form of a LOG_LEVEL value. It is immutable and safe
// for concurrent lookups.
type LevelSpec struct {
	entries  []specEntry
	warnings []ParseWarning
}

// ParseLevelSpec parses the whole value once. It never fails: malformed
// entries only produce warnings.
func ParseLevelSpec(spec string) *LevelSpec {
	ls := &LevelSpec{}
	if strings.TrimSpace(spec) == "" {
		return ls
	}
	for i, raw := range strings.Split(spec, ",") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		sep := strings.LastIndexByte(entry, ':')
		if sep < 0 {
			ls.warn(entry, i, "no level given")
			continue
		}
		levelName := strings.TrimSpace(entry[sep+1:])
		level, ok := ParseLevel(levelName)
		if !ok {
			ls.warn(entry, i, "unknown level `"+levelName+"`")
			continue
		}
		e := specEntry{pattern: strings.TrimSpace(entry[:sep]), level: level}
		if rest, found := strings.CutPrefix(e.pattern, FILE_MARKER); found {
			e.file = true
			e.pattern = rest
		}
		if rest, found := strings.CutSuffix(e.pattern, "*"); found {
			e.prefix = true
			e.pattern = rest
		}
		ls.entries = append(ls.entries, e)
	}
	return ls
}

func (ls *LevelSpec) warn(entry string, index int, reason string) {
	ls.warnings = append(ls.warnings, ParseWarning{Entry: entry, Index: index, Reason: reason})
}

// Warnings returns the entries skipped while parsing.
func (ls *LevelSpec) Warnings() []ParseWarning {
	return ls.warnings
}

// Len returns the number of usable entries.
func (ls *LevelSpec) Len() int {
	return len(ls.entries)
}

// Lookup returns the level of the last entry matching category among the
// console (file == false) or FILE_ (file == true) entries. The second result
// is false when no entry matched.
func (ls *LevelSpec) Lookup(category string, file bool) (level LogLevel, found bool) {
	if ls == nil {
		return LVL_UNKNOWN, false
	}
	for i := range ls.entries {
		e := &ls.entries[i]
		if e.file != file || !e.matches(category) {
			continue
		}
		level, found = e.level, true
	}
	return level, found
}

func (e *specEntry) matches(category string) bool {
	if e.prefix {
		// "" with prefix is a bare "*": matches everything as well
		return strings.HasPrefix(category, e.pattern)
	}
	return e.pattern == "" || e.pattern == category
}

// ParseCategoryLevel answers a single query directly from the raw value.
// Use ParseLevelSpec when the same value is queried more than once.
func ParseCategoryLevel(spec, category string, file bool) (LogLevel, bool) {
	return ParseLevelSpec(spec).Lookup(category, file)
}
