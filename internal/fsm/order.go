package fsm

import (
	"context"
	"errors"
	"sync"

	"github.com/looplab/fsm"
)

// OrderStateMachine validates lifecycle transitions of an authentication order.
// Completed and expired are terminal.
type OrderStateMachine struct {
	fsm *fsm.FSM
	mu  sync.Mutex
}

func NewOrderStateMachine() *OrderStateMachine {
	osm := &OrderStateMachine{}
	osm.fsm = fsm.NewFSM(
		OrderStatePending,
		fsm.Events{
			{Name: OrderEventProgress, Src: []string{OrderStatePending}, Dst: OrderStatePending},
			{Name: OrderEventComplete, Src: []string{OrderStatePending}, Dst: OrderStateCompleted},
			{Name: OrderEventExpire, Src: []string{OrderStatePending}, Dst: OrderStateExpired},
		},
		fsm.Callbacks{},
	)
	return osm
}

func (osm *OrderStateMachine) CanTransition(currentState, event string) bool {
	osm.mu.Lock()
	defer osm.mu.Unlock()
	osm.fsm.SetState(currentState)
	return osm.fsm.Can(event)
}

// Transition applies event to currentState and returns the resulting state.
// A self-transition (progress) is reported as success with the unchanged state.
func (osm *OrderStateMachine) Transition(ctx context.Context, currentState, event string) (string, error) {
	osm.mu.Lock()
	defer osm.mu.Unlock()
	osm.fsm.SetState(currentState)
	if err := osm.fsm.Event(ctx, event); err != nil {
		var noTransition fsm.NoTransitionError
		if errors.As(err, &noTransition) {
			return osm.fsm.Current(), nil
		}
		return "", err
	}
	return osm.fsm.Current(), nil
}

func (osm *OrderStateMachine) AvailableEvents(currentState string) []string {
	osm.mu.Lock()
	defer osm.mu.Unlock()
	osm.fsm.SetState(currentState)
	return osm.fsm.AvailableTransitions()
}

// IsTerminal reports whether no event can leave state.
func (osm *OrderStateMachine) IsTerminal(state string) bool {
	return len(osm.AvailableEvents(state)) == 0
}
