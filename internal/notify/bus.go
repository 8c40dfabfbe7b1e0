// Package notify fans out content-free "state changed" signals to subscribers.
package notify

import (
	"log"
	"sync"
)

// Bus broadcasts change signals. There is no replay: a subscriber only sees
// signals emitted while it is subscribed. Each subscriber holds at most one
// undelivered signal, so bursts coalesce into one wakeup.
type Bus struct {
	mu      sync.RWMutex
	subs    map[*Subscription]struct{}
	verbose bool
}

// Subscription is one listener on a Bus.
type Subscription struct {
	bus  *Bus
	c    chan struct{}
	once sync.Once
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// SetVerbose enables per-signal logging.
func (b *Bus) SetVerbose(v bool) {
	b.mu.Lock()
	b.verbose = v
	b.mu.Unlock()
}

// Subscribe registers a new listener.
func (b *Bus) Subscribe() *Subscription {
	sub := &Subscription{bus: b, c: make(chan struct{}, 1)}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Signal notifies every current subscriber and returns how many there were.
// It never blocks and never fails, with or without subscribers.
func (b *Bus) Signal() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		select {
		case sub.c <- struct{}{}:
		default:
			// a wakeup is already queued for this subscriber
		}
	}
	if b.verbose {
		log.Printf("change signal sent to %d subscriber(s)", len(b.subs))
	}
	return len(b.subs)
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// C delivers one value per coalesced batch of signals. It is closed by Close.
func (s *Subscription) C() <-chan struct{} {
	return s.c
}

// Close unsubscribes. Safe to call more than once and concurrently with Signal.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		close(s.c)
		s.bus.mu.Unlock()
	})
}
