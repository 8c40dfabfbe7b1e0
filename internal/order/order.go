// Package order holds the in-memory registry of authentication orders and
// their lifecycle.
package order

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/google/uuid"

	"github.com/buildtall-systems/bankid-mock/internal/fsm"
)

// ErrOrderNotFound indicates the order reference is not known to the store.
var ErrOrderNotFound = errors.New("order not found")

// ErrInvalidTransition indicates the order is in a state that does not allow the operation.
var ErrInvalidTransition = errors.New("invalid order state transition")

// ErrUnknownSubStatus indicates a hint code outside the pending set.
var ErrUnknownSubStatus = errors.New("unknown pending sub-status")

// SubStatus is the step of the mock flow a pending order is simulating.
// The values double as the protocol hint codes.
type SubStatus string

const (
	SubStatusStarted                SubStatus = "started"
	SubStatusUserCallConfirm        SubStatus = "userCallConfirm"
	SubStatusUserSign               SubStatus = "userSign"
	SubStatusUserMrtd               SubStatus = "userMrtd"
	SubStatusNoClient               SubStatus = "noClient"
	SubStatusOutstandingTransaction SubStatus = "outstandingTransaction"
)

// SubStatuses lists every pending sub-status in display order.
func SubStatuses() []SubStatus {
	return []SubStatus{
		SubStatusStarted,
		SubStatusUserCallConfirm,
		SubStatusUserSign,
		SubStatusUserMrtd,
		SubStatusNoClient,
		SubStatusOutstandingTransaction,
	}
}

// ParseSubStatus maps a hint code to its SubStatus.
func ParseSubStatus(s string) (SubStatus, error) {
	for _, st := range SubStatuses() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSubStatus, s)
}

// CompletionData is the identity an operator resolved a pending order with.
type CompletionData struct {
	PersonalNumber string `json:"personalNumber"`
	Name           string `json:"name"`
	GivenName      string `json:"givenName"`
	Surname        string `json:"surName"`
}

// State is the mutable part of an order.
// SubStatus is meaningful only while pending; Completion only once completed.
type State struct {
	Lifecycle  string
	SubStatus  SubStatus
	Completion *CompletionData
}

func (s State) IsPending() bool   { return s.Lifecycle == fsm.OrderStatePending }
func (s State) IsCompleted() bool { return s.Lifecycle == fsm.OrderStateCompleted }
func (s State) IsExpired() bool   { return s.Lifecycle == fsm.OrderStateExpired }

// Order is one authentication attempt.
type Order struct {
	ID        uuid.UUID
	Origin    netip.Addr
	CreatedAt time.Time
	State     State
}

// Entry is a row of the pending-by-origin listing.
type Entry struct {
	CreatedAt time.Time
	ID        uuid.UUID
	SubStatus SubStatus
}
