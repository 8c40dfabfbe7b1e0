// Package rp implements the relying-party protocol operations (auth, collect)
// and the operator actions that resolve pending orders.
package rp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/netip"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/buildtall-systems/bankid-mock/internal/config"
	"github.com/buildtall-systems/bankid-mock/internal/db"
	"github.com/buildtall-systems/bankid-mock/internal/order"
)

// ErrInvalidOrderRef indicates an order reference that is not a UUID.
var ErrInvalidOrderRef = errors.New("invalid order reference")

// ErrUnknownAlias indicates the alias is not configured.
var ErrUnknownAlias = errors.New("unknown alias")

// ErrUnknownPreset indicates no quick-complete preset has the label.
var ErrUnknownPreset = errors.New("unknown quick-complete preset")

// Notifier receives a signal after every successful mutation.
type Notifier interface {
	Signal() int
}

// Recorder journals mutations. Failures are logged, never returned.
type Recorder interface {
	Record(ctx context.Context, orderRef, event, detail string) error
}

type Service struct {
	store   *order.Store
	bus     Notifier
	journal Recorder
	data    config.MockData
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder journals every successful mutation.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.journal = r }
}

func NewService(store *order.Store, bus Notifier, data config.MockData, opts ...Option) *Service {
	s := &Service{
		store:  store,
		bus:    bus,
		data:   data,
		tracer: otel.Tracer("github.com/buildtall-systems/bankid-mock/internal/rp"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseOrderRef parses an external order reference.
func ParseOrderRef(ref string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(ref))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidOrderRef, ref)
	}
	return id, nil
}

// StartAuth creates a pending order for origin.
func (s *Service) StartAuth(ctx context.Context, origin netip.Addr) AuthResponse {
	ctx, span := s.tracer.Start(ctx, "rp.StartAuth")
	defer span.End()

	id := s.store.CreateEmpty(origin)
	span.SetAttributes(attribute.String("order.ref", id.String()), attribute.String("order.origin", origin.String()))

	s.changed(ctx, id.String(), db.EventAuth, "origin="+origin.String())

	return AuthResponse{
		OrderRef:       id.String(),
		AutoStartToken: mockAutoStartToken,
		QRStartToken:   mockQRStartToken,
		QRStartSecret:  mockQRStartSecret,
	}
}

// Collect reports the current status of an order. It never fails: an unknown
// reference is answered as a freshly started pending order.
func (s *Service) Collect(ctx context.Context, orderRef string) CollectResponse {
	_, span := s.tracer.Start(ctx, "rp.Collect", trace.WithAttributes(attribute.String("order.ref", orderRef)))
	defer span.End()

	resp := CollectResponse{OrderRef: orderRef}

	var (
		o     order.Order
		found bool
	)
	if id, err := ParseOrderRef(orderRef); err == nil {
		o, found = s.store.Get(id)
	}
	span.SetAttributes(attribute.Bool("order.found", found))

	switch {
	case !found:
		resp.Status = StatusPending
		resp.HintCode = hint(string(order.SubStatusStarted))
	case o.State.IsCompleted():
		resp.Status = StatusComplete
		resp.CompletionData = &CompletionData{
			User:            *o.State.Completion,
			Device:          Device{IPAddress: o.Origin.String()},
			BankIDIssueDate: mockBankIDIssueDate,
			Signature:       mockSignature,
			OCSPResponse:    mockOCSPResponse,
		}
	case o.State.IsExpired():
		resp.Status = StatusFailed
		resp.HintCode = hint(HintExpiredTransaction)
	default:
		resp.Status = StatusPending
		resp.HintCode = hint(string(o.State.SubStatus))
	}
	return resp
}

// CompleteOrder resolves a pending order with the given identity.
func (s *Service) CompleteOrder(ctx context.Context, id uuid.UUID, personalNumber, fullName string) error {
	ctx, span := s.tracer.Start(ctx, "rp.CompleteOrder", trace.WithAttributes(attribute.String("order.ref", id.String())))
	defer span.End()

	given, surname := SplitName(fullName)
	err := s.store.Transition(ctx, id, order.CompletionData{
		PersonalNumber: personalNumber,
		Name:           fullName,
		GivenName:      given,
		Surname:        surname,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("completing order %s: %w", id, err)
	}

	s.changed(ctx, id.String(), db.EventComplete, fullName)
	return nil
}

// QuickComplete resolves a pending order with a configured preset.
func (s *Service) QuickComplete(ctx context.Context, id uuid.UUID, label string) error {
	preset, ok := s.data.QuickUser(label)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, label)
	}
	return s.CompleteOrder(ctx, id, preset.SSN, preset.Name)
}

// AdvanceSubStatus moves a pending order to another sub-status.
func (s *Service) AdvanceSubStatus(ctx context.Context, id uuid.UUID, status order.SubStatus) error {
	ctx, span := s.tracer.Start(ctx, "rp.AdvanceSubStatus", trace.WithAttributes(
		attribute.String("order.ref", id.String()),
		attribute.String("order.sub_status", string(status)),
	))
	defer span.End()

	if err := s.store.SetSubStatus(id, status); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("setting status of order %s: %w", id, err)
	}

	s.changed(ctx, id.String(), db.EventSubStatus, string(status))
	return nil
}

// ListOrigins returns the origins that currently have pending orders.
func (s *Service) ListOrigins() []OriginEntry {
	origins := s.store.DistinctOriginsWithPending()
	entries := make([]OriginEntry, 0, len(origins))
	for _, addr := range origins {
		e := OriginEntry{IP: addr.String()}
		if name, ok := s.data.AliasFor(addr); ok {
			e.Alias = name
		}
		entries = append(entries, e)
	}
	return entries
}

// ListAliases returns the configured alias names in configuration order.
func (s *Service) ListAliases() []string {
	names := make([]string, 0, len(s.data.Aliases))
	for _, a := range s.data.Aliases {
		names = append(names, a.Name)
	}
	return names
}

// Presets returns the quick-complete presets.
func (s *Service) Presets() []config.QuickUser {
	return append([]config.QuickUser(nil), s.data.QuickUsers...)
}

// PendingByOrigin lists pending orders for origin, newest first.
func (s *Service) PendingByOrigin(origin netip.Addr) []PendingOrder {
	entries := s.store.AllPendingByOrigin(origin)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	out := make([]PendingOrder, 0, len(entries))
	for _, e := range entries {
		out = append(out, PendingOrder{
			OrderRef:  e.ID.String(),
			CreatedAt: e.CreatedAt,
			SubStatus: e.SubStatus,
		})
	}
	return out
}

// PendingByAlias lists pending orders for the origin an alias names.
func (s *Service) PendingByAlias(alias string) ([]PendingOrder, error) {
	addr, ok := s.data.AliasAddr(alias)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlias, alias)
	}
	return s.PendingByOrigin(addr), nil
}

// SplitName derives given name and surname from a full name: the first and
// last whitespace-separated tokens. A single token has an empty surname.
func SplitName(fullName string) (given, surname string) {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return "", ""
	}
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], fields[len(fields)-1]
}

// changed signals observers and journals the mutation. Called after the store
// lock has been released.
func (s *Service) changed(ctx context.Context, orderRef, event, detail string) {
	s.bus.Signal()

	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, orderRef, event, detail); err != nil {
		log.Printf("journal: %v", err)
	}
}

func hint(code string) *string {
	return &code
}
