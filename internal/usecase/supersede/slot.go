// Package supersede implements last-request-wins slots: each slot owns at
// most one in-flight operation and a newer submission cancels the older one.
package supersede

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrSuperseded is returned to an operation replaced by a newer one. Callers treat it as a silent no-op.
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrDuplicate is returned by Begin when the same key is already in flight.
	ErrDuplicate = errors.New("duplicate request in flight")
)

// Slot serializes submissions for one logical consumer (a search box, a session).
type Slot struct {
	debounce time.Duration

	mu     sync.Mutex
	seq    uint64
	key    string
	cancel context.CancelFunc
	call   *call
}

// call is the shared state of the current in-flight operation.
type call struct {
	done chan struct{}
	val  any
	err  error
}

// New creates a slot. A positive debounce delays every operation by that
// quiescence window; a newer submission during the window supersedes it.
func New(debounce time.Duration) *Slot {
	return &Slot{debounce: debounce}
}

// Token identifies one submission to a slot.
type Token struct {
	slot   *Slot
	id     uint64
	cancel context.CancelFunc
}

// Begin cancels the previous submission and starts a new one.
// The returned context is canceled when a newer submission arrives or Done is called.
// A non-empty key equal to the in-flight key yields ErrDuplicate and leaves the in-flight operation untouched.
func (s *Slot) Begin(ctx context.Context, key string) (Token, context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key != "" && s.call != nil && s.key == key {
		return Token{}, nil, ErrDuplicate
	}
	return s.beginLocked(ctx, key)
}

func (s *Slot) beginLocked(ctx context.Context, key string) (Token, context.Context, error) {
	if s.cancel != nil {
		s.cancel()
	}
	if s.call != nil {
		s.call.err = ErrSuperseded
		close(s.call.done)
	}
	s.seq++
	opCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.key = key
	s.call = &call{done: make(chan struct{})}
	return Token{slot: s, id: s.seq, cancel: cancel}, opCtx, nil
}

// Current reports whether no newer submission has replaced the token.
func (t Token) Current() bool {
	if t.slot == nil {
		return false
	}
	t.slot.mu.Lock()
	defer t.slot.mu.Unlock()
	return t.slot.seq == t.id
}

// Apply runs fn only if the token is still current, holding the slot lock
// so no newer submission can interleave. Reports whether fn ran.
func (t Token) Apply(fn func()) bool {
	if t.slot == nil {
		return false
	}
	t.slot.mu.Lock()
	defer t.slot.mu.Unlock()
	if t.slot.seq != t.id {
		return false
	}
	fn()
	return true
}

// Done releases the token. Safe to call more than once.
func (t Token) Done() {
	if t.slot == nil {
		return
	}
	t.slot.mu.Lock()
	if t.slot.seq == t.id {
		t.slot.finishLocked(nil, nil)
	}
	t.slot.mu.Unlock()
	t.cancel()
}

func (s *Slot) finishLocked(val any, err error) {
	if s.call != nil {
		s.call.val, s.call.err = val, err
		close(s.call.done)
	}
	s.call = nil
	s.key = ""
	s.cancel = nil
}

// Cancel aborts whatever is in flight. Its caller gets ErrSuperseded.
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	s.finishLocked(nil, ErrSuperseded)
}

// Run submits fn to the slot and returns its result if fn is still current
// when it finishes. Otherwise it returns ErrSuperseded.
// A submission with the same non-empty key as the in-flight one joins it
// and receives the original's result instead of starting a second run.
func Run[T any](ctx context.Context, s *Slot, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	s.mu.Lock()
	if key != "" && s.call != nil && s.key == key {
		c := s.call
		s.mu.Unlock()
		return join[T](ctx, c)
	}
	tok, opCtx, _ := s.beginLocked(ctx, key)
	s.mu.Unlock()
	defer tok.cancel()

	if err := s.wait(opCtx); err != nil {
		if !tok.Current() {
			return zero, ErrSuperseded
		}
		tok.finish(zero, err)
		return zero, err
	}

	val, err := fn(opCtx)

	current := tok.Apply(func() { tok.slot.finishLocked(val, err) })
	if !current {
		return zero, ErrSuperseded
	}
	return val, err
}

func (t Token) finish(val any, err error) {
	t.Apply(func() { t.slot.finishLocked(val, err) })
}

func (s *Slot) wait(ctx context.Context) error {
	if s.debounce <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.debounce)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func join[T any](ctx context.Context, c *call) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-c.done:
	}
	if c.err != nil {
		return zero, c.err
	}
	v, ok := c.val.(T)
	if !ok {
		return zero, ErrSuperseded
	}
	return v, nil
}
