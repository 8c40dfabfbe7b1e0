// Package sweeper periodically expires stale pending orders.
package sweeper

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/buildtall-systems/bankid-mock/internal/db"
)

const (
	DefaultInterval = 10 * time.Second
	DefaultTTL      = 50 * time.Second
)

// Expirer is the store capability the sweeper needs.
type Expirer interface {
	SweepExpired(ctx context.Context, now time.Time, ttl time.Duration) int
}

// Signaler is notified once per tick that changed anything.
type Signaler interface {
	Signal() int
}

// Recorder journals sweep results. Optional.
type Recorder interface {
	Record(ctx context.Context, orderRef, event, detail string) error
}

type Sweeper struct {
	store    Expirer
	bus      Signaler
	journal  Recorder
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
}

// Option configures a Sweeper.
type Option func(*Sweeper)

func WithInterval(d time.Duration) Option { return func(s *Sweeper) { s.interval = d } }
func WithTTL(d time.Duration) Option      { return func(s *Sweeper) { s.ttl = d } }
func WithRecorder(r Recorder) Option      { return func(s *Sweeper) { s.journal = r } }
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

func New(store Expirer, bus Signaler, opts ...Option) *Sweeper {
	s := &Sweeper{
		store:    store,
		bus:      bus,
		interval: DefaultInterval,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	return s
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("sweeper started (interval %s, ttl %s)", s.interval, s.ttl)
	for {
		select {
		case <-ctx.Done():
			log.Printf("sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				log.Printf("sweep failed, retrying next tick: %v", err)
			}
		}
	}
}

// Tick runs a single sweep and returns the number of orders expired.
// A panic inside the sweep is reported as an error so the loop survives.
func (s *Sweeper) Tick(ctx context.Context) (expired int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sweep panicked: %v", r)
		}
	}()

	expired = s.store.SweepExpired(ctx, s.now(), s.ttl)
	if expired == 0 {
		return 0, nil
	}

	log.Printf("expired %d order(s)", expired)
	s.bus.Signal()

	if s.journal != nil {
		if jerr := s.journal.Record(ctx, "", db.EventSweep, fmt.Sprintf("expired=%d", expired)); jerr != nil {
			log.Printf("journal: %v", jerr)
		}
	}
	return expired, nil
}
