package fsm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/looplab/fsm"
)

func TestOrderStateMachine_ValidTransitions(t *testing.T) {
	tests := []struct {
		name         string
		currentState string
		event        string
		wantState    string
	}{
		{
			name:         "pending to completed via complete event",
			currentState: OrderStatePending,
			event:        OrderEventComplete,
			wantState:    OrderStateCompleted,
		},
		{
			name:         "pending to expired via expire event",
			currentState: OrderStatePending,
			event:        OrderEventExpire,
			wantState:    OrderStateExpired,
		},
		{
			name:         "pending stays pending via progress event",
			currentState: OrderStatePending,
			event:        OrderEventProgress,
			wantState:    OrderStatePending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			osm := NewOrderStateMachine()
			ctx := context.Background()

			newState, err := osm.Transition(ctx, tt.currentState, tt.event)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if newState != tt.wantState {
				t.Errorf("got state %q, want %q", newState, tt.wantState)
			}
		})
	}
}

func TestOrderStateMachine_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name         string
		currentState string
		event        string
	}{
		{"completed is terminal - cannot complete again", OrderStateCompleted, OrderEventComplete},
		{"completed is terminal - cannot expire", OrderStateCompleted, OrderEventExpire},
		{"completed is terminal - cannot progress", OrderStateCompleted, OrderEventProgress},
		{"expired is terminal - cannot complete", OrderStateExpired, OrderEventComplete},
		{"expired is terminal - cannot expire again", OrderStateExpired, OrderEventExpire},
		{"expired is terminal - cannot progress", OrderStateExpired, OrderEventProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			osm := NewOrderStateMachine()
			ctx := context.Background()

			_, err := osm.Transition(ctx, tt.currentState, tt.event)
			if err == nil {
				t.Errorf("expected error for invalid transition %s + %s", tt.currentState, tt.event)
			}

			var invalidErr fsm.InvalidEventError
			if !errors.As(err, &invalidErr) {
				t.Errorf("expected InvalidEventError, got %T: %v", err, err)
			}
		})
	}
}

func TestOrderStateMachine_CanTransition(t *testing.T) {
	osm := NewOrderStateMachine()

	tests := []struct {
		currentState string
		event        string
		want         bool
	}{
		{OrderStatePending, OrderEventComplete, true},
		{OrderStatePending, OrderEventExpire, true},
		{OrderStatePending, OrderEventProgress, true},
		{OrderStateCompleted, OrderEventComplete, false},
		{OrderStateCompleted, OrderEventExpire, false},
		{OrderStateCompleted, OrderEventProgress, false},
		{OrderStateExpired, OrderEventComplete, false},
		{OrderStateExpired, OrderEventExpire, false},
		{OrderStateExpired, OrderEventProgress, false},
	}

	for _, tt := range tests {
		name := tt.currentState + "_" + tt.event
		t.Run(name, func(t *testing.T) {
			got := osm.CanTransition(tt.currentState, tt.event)
			if got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.currentState, tt.event, got, tt.want)
			}
		})
	}
}

func TestOrderStateMachine_Terminal(t *testing.T) {
	osm := NewOrderStateMachine()

	tests := []struct {
		state string
		want  bool
	}{
		{OrderStatePending, false},
		{OrderStateCompleted, true},
		{OrderStateExpired, true},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			if got := osm.IsTerminal(tt.state); got != tt.want {
				t.Errorf("IsTerminal(%s) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestOrderStateMachine_ConcurrentAccess(t *testing.T) {
	osm := NewOrderStateMachine()
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			osm.CanTransition(OrderStatePending, OrderEventComplete)
			osm.AvailableEvents(OrderStatePending)

			_, _ = osm.Transition(ctx, OrderStatePending, OrderEventExpire)
			_, _ = osm.Transition(ctx, OrderStateCompleted, OrderEventExpire)
		}()
	}

	wg.Wait()
}

func TestOrderStateMachine_UnknownEvent(t *testing.T) {
	osm := NewOrderStateMachine()
	ctx := context.Background()

	_, err := osm.Transition(ctx, OrderStatePending, "unknown_event")
	if err == nil {
		t.Error("expected error for unknown event")
	}

	var unknownErr fsm.UnknownEventError
	if !errors.As(err, &unknownErr) {
		t.Errorf("expected UnknownEventError, got %T: %v", err, err)
	}
}
