package catlog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestGate(spec string, hasFile bool) *Gate {
	return NewGate(newResolver(resolverParams{
		lookup:  func() (string, bool) { return spec, true },
		hasFile: hasFile,
	}))
}

func Test_Gate_Decide(t *testing.T) {
	g := newTestGate("db:warning,FILE_db:debug", true)
	tests := []struct {
		level LogLevel
		want  Decision
	}{
		{LVL_DEBUG, Decision{Console: false, File: true}},
		{LVL_INFO, Decision{Console: false, File: true}},
		{LVL_WARNING, Decision{Console: true, File: true}},
		{LVL_ERROR, Decision{Console: true, File: true}},
		{LVL_UNKNOWN, Decision{}},
		{LVL_OFF, Decision{}},
		{LogLevel(77), Decision{}},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, g.Decide(NewSite("db", tt.level)))
		})
	}
}

func Test_Gate_OffLevel(t *testing.T) {
	g := newTestGate("noisy:off", false)
	assert.False(t, g.Decide(NewSite("noisy", LVL_ERROR)).Any())
	assert.True(t, g.Decide(NewSite("quiet", LVL_ERROR)).Any())
}

func Test_Gate_Cached(t *testing.T) {
	g := newTestGate("", false)
	site := NewSite("c", LVL_INFO)
	for range 100 {
		assert.True(t, g.Decide(site).Console)
	}
	assert.Equal(t, int64(1), g.resolver.resolves.Load())
	assert.Equal(t, LVL_INFO, site.Level())
	assert.Equal(t, "c", site.Category())
}

func Test_Gate_ConcurrentFirstDecide(t *testing.T) {
	g := newTestGate("c:debug", false)
	site := NewSite("c", LVL_DEBUG)
	var wg sync.WaitGroup
	hold := make(chan int)
	results := make([]Decision, 64)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range hold {
			}
			results[i] = g.Decide(site)
		}()
	}
	close(hold)
	wg.Wait()
	for _, d := range results {
		assert.Equal(t, Decision{Console: true}, d)
	}
	assert.Equal(t, int64(1), g.resolver.resolves.Load())
}

func Test_Gate_DecideAtKeying(t *testing.T) {
	g := newTestGate("a:error", false)
	assert.False(t, g.DecideAt(1, LVL_INFO, "a").Any())
	assert.True(t, g.DecideAt(1, LVL_INFO, "b").Any(), "same pc, other category")
	assert.True(t, g.DecideAt(1, LVL_ERROR, "a").Any(), "same pc, other level")
	assert.False(t, g.DecideAt(1, LVL_INFO, "a").Any())
	assert.Equal(t, int64(3), g.resolver.resolves.Load())
	assert.Same(t, g.siteAt(2, LVL_INFO, "a"), g.siteAt(2, LVL_INFO, "a"))
}

func Test_Site_KeepsFirstDecision(t *testing.T) {
	site := NewSite("x", LVL_INFO)
	enabled := newTestGate("", false)
	disabled := newTestGate("x:error", false)
	assert.True(t, enabled.Decide(site).Any())
	assert.True(t, disabled.Decide(site).Any(), "decision is stored in the site")
	assert.Zero(t, disabled.resolver.resolves.Load())
}
