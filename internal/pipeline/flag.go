package pipeline

import "sync/atomic"

// Flag is the shared termination flag. The zero value is a running flag.
type Flag struct {
	stopped atomic.Bool
}

// Stop sets the flag. It reports whether this call changed it, so exactly
// one caller observes the transition.
func (f *Flag) Stop() bool {
	return f.stopped.CompareAndSwap(false, true)
}

// Stopped reports whether the flag has been set.
func (f *Flag) Stopped() bool {
	return f.stopped.Load()
}
