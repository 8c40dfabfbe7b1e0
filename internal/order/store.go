package order

import (
	"context"
	"fmt"
	"log"
	"net/netip"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/buildtall-systems/bankid-mock/internal/fsm"
)

// Store owns every order. All operations are serialized by a single mutex
// covering the whole map; no I/O happens while it is held.
type Store struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*Order
	sm     *fsm.OrderStateMachine
	now    func() time.Time
	newID  func() uuid.UUID
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides order reference generation.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Store) { s.newID = gen }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		orders: make(map[uuid.UUID]*Order),
		sm:     fsm.NewOrderStateMachine(),
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEmpty registers a new pending order for origin and returns its reference.
func (s *Store) CreateEmpty(origin netip.Addr) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for {
		if _, taken := s.orders[id]; !taken {
			break
		}
		id = s.newID()
	}

	s.orders[id] = &Order{
		ID:        id,
		Origin:    origin,
		CreatedAt: s.now(),
		State: State{
			Lifecycle: fsm.OrderStatePending,
			SubStatus: SubStatusStarted,
		},
	}
	return id
}

// Transition completes a pending order with data.
// Completing an order that is already completed or expired is rejected with
// ErrInvalidTransition and leaves it untouched.
func (s *Store) Transition(ctx context.Context, id uuid.UUID, data CompletionData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return ErrOrderNotFound
	}

	next, err := s.sm.Transition(ctx, o.State.Lifecycle, fsm.OrderEventComplete)
	if err != nil {
		return fmt.Errorf("%w: cannot complete %s order", ErrInvalidTransition, o.State.Lifecycle)
	}

	o.State = State{Lifecycle: next, Completion: &data}
	return nil
}

// SetSubStatus changes the sub-status of a pending order.
func (s *Store) SetSubStatus(id uuid.UUID, status SubStatus) error {
	if _, err := ParseSubStatus(string(status)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if !s.sm.CanTransition(o.State.Lifecycle, fsm.OrderEventProgress) {
		return fmt.Errorf("%w: order is %s, not pending", ErrInvalidTransition, o.State.Lifecycle)
	}

	o.State.SubStatus = status
	return nil
}

// Get returns a snapshot of the order.
func (s *Store) Get(id uuid.UUID) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, false
	}
	return o.snapshot(), true
}

// AllPendingByOrigin returns the pending orders started from origin.
// The result is unordered.
func (s *Store) AllPendingByOrigin(origin netip.Addr) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0)
	for id, o := range s.orders {
		if o.Origin == origin && o.State.IsPending() {
			entries = append(entries, Entry{CreatedAt: o.CreatedAt, ID: id, SubStatus: o.State.SubStatus})
		}
	}
	return entries
}

// DistinctOriginsWithPending returns every origin that has at least one
// pending order, sorted by address.
func (s *Store) DistinctOriginsWithPending() []netip.Addr {
	s.mu.Lock()
	seen := make(map[netip.Addr]struct{})
	for _, o := range s.orders {
		if o.State.IsPending() {
			seen[o.Origin] = struct{}{}
		}
	}
	s.mu.Unlock()

	origins := make([]netip.Addr, 0, len(seen))
	for addr := range seen {
		origins = append(origins, addr)
	}
	sort.Slice(origins, func(i, j int) bool { return origins[i].Less(origins[j]) })
	return origins
}

// SweepExpired expires every pending order created more than ttl before now
// and returns how many changed state in this call.
func (s *Store) SweepExpired(ctx context.Context, now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired int
	for id, o := range s.orders {
		if !o.State.IsPending() || !o.CreatedAt.Add(ttl).Before(now) {
			continue
		}
		next, err := s.sm.Transition(ctx, o.State.Lifecycle, fsm.OrderEventExpire)
		if err != nil {
			log.Printf("failed to expire order %s: %v", id, err)
			continue
		}
		o.State = State{Lifecycle: next}
		expired++
	}
	return expired
}

// Len returns the number of orders ever created.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (o *Order) snapshot() Order {
	cp := *o
	if o.State.Completion != nil {
		c := *o.State.Completion
		cp.State.Completion = &c
	}
	return cp
}
