package catlog

import (
	"sync"
)

/*
The gate decides, once per call site, which sinks a log statement reaches.

Every call site owns a Site. The first evaluation asks the resolver for the
category levels, compares them with the literal level of the site and stores
the result; every later evaluation returns the stored Decision without
parsing or reading the environment. A disabled statement therefore costs one
cached lookup and no formatting.

Explicit sites (NewSite) are plain values owned by the caller. Implicit sites
used by Client methods live in the gate and are keyed by the caller's
program counter together with level and category, so one source line that
logs for several categories keeps one cell per category.
*/

// NewSite creates an explicit call site cell for a fixed level and category.
// Declare it once, typically at package scope, and pass it to Logger.LogAt or
// Logger.LogOnceAt:
//
//	var dialFailed = catlog.NewSite("net", catlog.LVL_WARNING)
//	...
//	logger.LogAt(dialFailed, "dial %s failed: %v", addr, err)
//
// A Site keeps the decision of the first logger that evaluated it.
func NewSite(category string, level LogLevel) *Site {
	return &Site{level: normLevel(level), category: category}
}

// Level returns the literal level of the site.
func (s *Site) Level() LogLevel { return s.level }

// Category returns the category of the site.
func (s *Site) Category() string { return s.category }

// Gate owns the implicit call sites of a logger.
type Gate struct {
	resolver *Resolver
	sites    sync.Map // siteKey -> *Site
}

type siteKey struct {
	pc       uintptr
	level    LogLevel
	category string
}

// NewGate creates a gate resolving levels through r.
func NewGate(r *Resolver) *Gate {
	return &Gate{resolver: r}
}

// Decide returns the cached decision of site, computing it on first use.
// Concurrent first calls block until the single winner stored the result.
func (g *Gate) Decide(site *Site) Decision {
	site.gate.once.Do(func() {
		site.gate.decision = g.evaluate(site.level, site.category)
	})
	return site.gate.decision
}

// DecideAt is Decide for the implicit site identified by pc.
func (g *Gate) DecideAt(pc uintptr, level LogLevel, category string) Decision {
	return g.Decide(g.siteAt(pc, level, category))
}

// siteAt returns the implicit site for the key, creating it on first use.
func (g *Gate) siteAt(pc uintptr, level LogLevel, category string) *Site {
	key := siteKey{pc: pc, level: level, category: category}
	if s, ok := g.sites.Load(key); ok {
		return s.(*Site)
	}
	s, _ := g.sites.LoadOrStore(key, NewSite(category, level))
	return s.(*Site)
}

func (g *Gate) evaluate(level LogLevel, category string) Decision {
	if !isLoggable(level) {
		return Decision{}
	}
	console, file := g.resolver.Resolve(category)
	return Decision{
		Console: level >= console,
		File:    level >= file,
	}
}
