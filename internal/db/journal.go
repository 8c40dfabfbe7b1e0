package db

import (
	"context"
	"fmt"
	"time"
)

// Journal event names.
const (
	EventAuth      = "auth"
	EventComplete  = "complete"
	EventSubStatus = "status"
	EventSweep     = "sweep"
)

// DefaultRecentLimit bounds journal listings when no limit is given.
const DefaultRecentLimit = 50

// Event is one journal row.
type Event struct {
	ID        int64     `db:"id" json:"id"`
	OrderRef  string    `db:"order_ref" json:"orderRef"`
	Event     string    `db:"event" json:"event"`
	Detail    string    `db:"detail" json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Record appends an event. orderRef is empty for events not tied to one order.
func (db *DB) Record(ctx context.Context, orderRef, event, detail string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO order_events (order_ref, event, detail, created_at)
		VALUES (?, ?, ?, ?)
	`, orderRef, event, detail, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording %s event: %w", event, err)
	}
	return nil
}

// Recent returns the newest events first.
func (db *DB) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	events := make([]Event, 0)
	err := db.SelectContext(ctx, &events, `
		SELECT id, order_ref, event, detail, created_at
		FROM order_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent events: %w", err)
	}
	return events, nil
}

// ForOrder returns the events of one order, oldest first.
func (db *DB) ForOrder(ctx context.Context, orderRef string) ([]Event, error) {
	events := make([]Event, 0)
	err := db.SelectContext(ctx, &events, `
		SELECT id, order_ref, event, detail, created_at
		FROM order_events
		WHERE order_ref = ?
		ORDER BY id ASC
	`, orderRef)
	if err != nil {
		return nil, fmt.Errorf("querying events for order %s: %w", orderRef, err)
	}
	return events, nil
}
