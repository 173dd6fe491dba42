// Package domain holds the moderation audit event contract
package domain

import (
	"context"
	"time"
)

// Event is one append-only moderation trail entry
type Event struct {
	TS        time.Time
	PaperID   string
	UserID    string
	Event     string
	Detail    string
	OldStatus string
	NewStatus string
}

// Event names recorded by the engines
const (
	EventCreated       = "created"
	EventUpvote        = "upvote"
	EventUnvote        = "unvote"
	EventStanceConfirm = "stance_confirm"
	EventStanceDispute = "stance_dispute"
	EventStanceSwitch  = "stance_switch"
	EventStanceRetract = "stance_retract"
	EventTransition    = "transition"
	EventOwnerOverride = "owner_override"
	EventRemoved       = "removed"
)

// RecorderPort appends audit events. Implementations are best-effort; the
// caller logs failures and never fails the request on them
type RecorderPort interface {
	Record(ctx context.Context, ev Event) error
}

// ReaderPort reads a paper's audit trail
type ReaderPort interface {
	History(ctx context.Context, paperID string) ([]Event, error)
}
