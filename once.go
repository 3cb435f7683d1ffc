package catlog

import (
	"sync"
	"sync/atomic"
)

// Once guards an action so it runs a single time over the process lifetime,
// including when several goroutines reach it at the same moment: exactly one
// of them runs the action, the others wait for it to finish and skip it.
//
// The zero value is ready to use.
type Once struct {
	once sync.Once
	done atomic.Bool
}

// Do runs action if no previous Do call on o did. It reports whether this
// call was the one running it. A panicking action still counts as run.
func (o *Once) Do(action func()) (ran bool) {
	o.once.Do(func() {
		ran = true
		defer o.done.Store(true)
		action()
	})
	return ran
}

// Done reports whether the guarded action has already run.
func (o *Once) Done() bool {
	return o.done.Load()
}
