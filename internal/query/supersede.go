// Package query keeps only the latest request per logical query alive. Starting a
// new request for a key cancels the previous one, and every request carries a
// sequence number so a late response can be recognised as stale.
package query

import (
	"context"
	"sync"
	"time"
)

// Superseder tracks the in-flight request per key.
type Superseder struct {
	mu     sync.Mutex
	seq    uint64
	active map[string]*Ticket
}

// NewSuperseder returns an empty Superseder.
func NewSuperseder() *Superseder {
	return &Superseder{active: make(map[string]*Ticket)}
}

// Ticket identifies one request for a key.
type Ticket struct {
	owner  *Superseder
	key    string
	seq    uint64
	cancel context.CancelFunc
}

// Begin cancels the previous request for key and returns a context for the new one.
func (s *Superseder) Begin(ctx context.Context, key string) (context.Context, *Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.active[key]; ok {
		prev.cancel()
	}
	s.seq++
	t := &Ticket{owner: s, key: key, seq: s.seq, cancel: cancel}
	s.active[key] = t
	return ctx, t
}

// Seq returns the ticket's sequence number. Later tickets have larger numbers.
func (t *Ticket) Seq() uint64 { return t.seq }

// Current reports whether no newer request for the same key has begun.
func (t *Ticket) Current() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.owner.active[t.key] == t
}

// Done releases the ticket's context. Safe to call more than once.
func (t *Ticket) Done() {
	t.cancel()
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.owner.active[t.key] == t {
		delete(t.owner.active, t.key)
	}
}

// Debouncer delays a call per key and drops it when a newer call for the same key
// arrives within the delay. A key is forgotten once its last call finishes.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
}

// NewDebouncer returns a Debouncer with the given delay. A non-positive delay
// disables debouncing.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, latest: make(map[string]uint64)}
}

// Wait blocks for the delay and reports whether this call is still the latest for
// key. It returns false early if ctx ends.
func (d *Debouncer) Wait(ctx context.Context, key string) bool {
	d.mu.Lock()
	d.seq++
	mine := d.seq
	d.latest[key] = mine
	d.mu.Unlock()

	if d.delay > 0 {
		timer := time.NewTimer(d.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			d.finish(key, mine)
			return false
		case <-timer.C:
		}
	}
	return d.finish(key, mine)
}

// finish drops key when mine is still its latest call and reports whether it was.
func (d *Debouncer) finish(key string, mine uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.latest[key] != mine {
		return false
	}
	delete(d.latest, key)
	return true
}

func (d *Debouncer) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.latest)
}
