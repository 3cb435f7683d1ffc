package catlog

import (
	"os"
	"sync"
	"sync/atomic"
)

// Resolver answers "what are the minimum console and file levels of a
// category". The environment value is read and parsed lazily, once per
// resolver, on the first Resolve call; later changes of the environment are
// not observed.
type Resolver struct {
	spec       func() *LevelSpec // parsed environment value (sync.OnceValue)
	consoleDef LogLevel
	fileDef    LogLevel // LVL_OFF when there is no file sink
	resolves   atomic.Int64
}

// resolverParams is the subset of Config the resolver depends on.
type resolverParams struct {
	lookup     func() (string, bool)
	consoleDef LogLevel
	fileDef    LogLevel
	hasFile    bool
	onWarnings func([]ParseWarning)
}

// NewResolver creates a resolver reading the named environment variable.
// consoleDef and fileDef are used when no entry matches (LVL_UNKNOWN selects
// DEFAULT_LOG_LEVEL); hasFile false disables the file sink for every category.
func NewResolver(envVar string, consoleDef, fileDef LogLevel, hasFile bool) *Resolver {
	if envVar == "" {
		envVar = DEFAULT_ENV_VAR
	}
	return newResolver(resolverParams{
		lookup:     func() (string, bool) { return os.LookupEnv(envVar) },
		consoleDef: consoleDef,
		fileDef:    fileDef,
		hasFile:    hasFile,
	})
}

func newResolver(p resolverParams) *Resolver {
	r := &Resolver{
		consoleDef: defaultLevel(p.consoleDef),
		fileDef:    LVL_OFF,
	}
	if p.hasFile {
		r.fileDef = defaultLevel(p.fileDef)
	}
	hasFile := p.hasFile
	r.spec = sync.OnceValue(func() *LevelSpec {
		raw, ok := "", false
		if p.lookup != nil {
			raw, ok = p.lookup()
		}
		if !ok {
			return &LevelSpec{}
		}
		ls := ParseLevelSpec(raw)
		if !hasFile {
			// the file sink never appears later, FILE_ entries are dead
			ls = ls.consoleOnly()
		}
		if len(ls.warnings) > 0 && p.onWarnings != nil {
			p.onWarnings(ls.warnings)
		}
		return ls
	})
	return r
}

// defaultLevel maps an unset or out of range level to DEFAULT_LOG_LEVEL.
func defaultLevel(l LogLevel) LogLevel {
	if normLevel(l) == LVL_UNKNOWN {
		return DEFAULT_LOG_LEVEL
	}
	return l
}

// consoleOnly returns a copy without FILE_ entries.
func (ls *LevelSpec) consoleOnly() *LevelSpec {
	out := &LevelSpec{warnings: ls.warnings}
	for _, e := range ls.entries {
		if !e.file {
			out.entries = append(out.entries, e)
		}
	}
	return out
}

// Resolve returns the minimum enabled console and file levels of category.
// The file level is LVL_OFF when the logger has no file sink.
func (r *Resolver) Resolve(category string) (console, file LogLevel) {
	r.resolves.Add(1)
	spec := r.spec()
	console, found := spec.Lookup(category, false)
	if !found {
		console = r.consoleDef
	}
	if r.fileDef == LVL_OFF {
		return console, LVL_OFF
	}
	file, found = spec.Lookup(category, true)
	if !found {
		file = r.fileDef
	}
	return console, file
}

// Spec returns the parsed environment value, reading it if needed.
func (r *Resolver) Spec() *LevelSpec {
	return r.spec()
}
