package catlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticLookup(value string, present bool, calls *int) func() (string, bool) {
	return func() (string, bool) {
		*calls++
		return value, present
	}
}

func Test_Resolver_Defaults(t *testing.T) {
	calls := 0
	r := newResolver(resolverParams{lookup: staticLookup("", false, &calls), hasFile: true})
	console, file := r.Resolve("any")
	assert.Equal(t, DEFAULT_LOG_LEVEL, console)
	assert.Equal(t, DEFAULT_LOG_LEVEL, file)

	r = newResolver(resolverParams{
		lookup:     staticLookup("", false, &calls),
		consoleDef: LVL_WARNING,
		fileDef:    LVL_DEBUG,
		hasFile:    true,
	})
	console, file = r.Resolve("any")
	assert.Equal(t, LVL_WARNING, console)
	assert.Equal(t, LVL_DEBUG, file)

	// out of range defaults fall back as well
	r = newResolver(resolverParams{consoleDef: LogLevel(99)})
	console, _ = r.Resolve("any")
	assert.Equal(t, DEFAULT_LOG_LEVEL, console)
}

func Test_Resolver_NoFileSink(t *testing.T) {
	calls := 0
	r := newResolver(resolverParams{
		lookup:  staticLookup("FILE_:debug,FILE_db:debug,db:error", true, &calls),
		fileDef: LVL_DEBUG,
		hasFile: false,
	})
	console, file := r.Resolve("db")
	assert.Equal(t, LVL_ERROR, console)
	assert.Equal(t, LVL_OFF, file)
	assert.Equal(t, 1, r.Spec().Len(), "FILE_ entries are dropped without a file sink")
}

func Test_Resolver_Entries(t *testing.T) {
	calls := 0
	r := newResolver(resolverParams{
		lookup:  staticLookup("net*:debug,FILE_net.dns:error", true, &calls),
		hasFile: true,
	})
	console, file := r.Resolve("net.dns")
	assert.Equal(t, LVL_DEBUG, console)
	assert.Equal(t, LVL_ERROR, file)

	console, file = r.Resolve("db")
	assert.Equal(t, LVL_INFO, console)
	assert.Equal(t, LVL_INFO, file)
}

func Test_Resolver_EnvReadOnce(t *testing.T) {
	calls := 0
	warned := 0
	r := newResolver(resolverParams{
		lookup:     staticLookup("x:bogus,y", true, &calls),
		onWarnings: func(w []ParseWarning) { warned += len(w) },
	})
	assert.Equal(t, 0, calls, "environment is read lazily")
	for range 10 {
		r.Resolve("a")
		r.Resolve("b")
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, warned, "warnings are reported once")
	assert.Equal(t, int64(20), r.resolves.Load())
}

func Test_NewResolver_Env(t *testing.T) {
	t.Setenv(testEnvVar, "svc:error")
	r := NewResolver(testEnvVar, LVL_UNKNOWN, LVL_UNKNOWN, false)
	console, file := r.Resolve("svc")
	assert.Equal(t, LVL_ERROR, console)
	assert.Equal(t, LVL_OFF, file)

	// not observed after the first read
	t.Setenv(testEnvVar, "svc:debug")
	console, _ = r.Resolve("svc")
	assert.Equal(t, LVL_ERROR, console)

	t.Setenv(DEFAULT_ENV_VAR, "svc:warning")
	r = NewResolver("", LVL_UNKNOWN, LVL_UNKNOWN, true)
	console, file = r.Resolve("svc")
	assert.Equal(t, LVL_WARNING, console)
	assert.Equal(t, LVL_INFO, file)
	require.NotNil(t, r.Spec())
}
