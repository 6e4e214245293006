package engine

import "sync"

// gate is the single process-wide lock serializing every call into an
// Engine. Engines are non-reentrant, so the lock is shared by all
// backends and all open containers.
var gate sync.Mutex

// With runs fn to completion while holding the gate. The gate is
// released on every exit path, including panics. There is no timeout
// and no cancellation: a blocked acquisition cannot be interrupted.
//
// fn must not call With again; the gate is not reentrant.
func With(fn func() error) error {
	gate.Lock()
	defer gate.Unlock()
	return fn()
}
