// Package gate implements the confirm-then-act state machine used by
// destructive actions: Idle -> PendingConfirmation(candidate) -> Idle.
package gate

import "sync"

// Gate holds at most one candidate awaiting confirmation. The zero value is
// an idle gate ready for use.
type Gate[T comparable] struct {
	mu        sync.Mutex
	candidate T
	open      bool
}

// Open records candidate. Opening an already open gate replaces the
// previous candidate.
func (g *Gate[T]) Open(candidate T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.candidate = candidate
	g.open = true
}

// Pending returns the current candidate without closing the gate.
func (g *Gate[T]) Pending() (T, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.candidate, g.open
}

// Take closes the gate and returns the candidate it held. ok is false when
// nothing was pending, in which case the caller must not act.
func (g *Gate[T]) Take() (candidate T, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	candidate, ok = g.candidate, g.open
	g.reset()
	return candidate, ok
}

// Cancel discards the candidate.
func (g *Gate[T]) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

func (g *Gate[T]) reset() {
	var zero T
	g.candidate = zero
	g.open = false
}
