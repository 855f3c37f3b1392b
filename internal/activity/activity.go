// Package activity records what users do on the marketplace and serves it back as a feed.
package activity

import (
	"context"
	"time"
)

// Actions recorded in the feed.
const (
	BookCreated       = "book_created"
	BookUpdated       = "book_updated"
	BookDeleted       = "book_deleted"
	BookStatusChanged = "book_status_changed"
	RequestCreated    = "request_created"
	RequestAccepted   = "request_accepted"
	RequestRejected   = "request_rejected"
	RequestCancelled  = "request_cancelled"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Entry is one line of a user's activity feed.
type Entry struct {
	UserID    int64             `bson:"user_id" json:"-"`
	Action    string            `bson:"action" json:"action"`
	BookID    int64             `bson:"book_id,omitempty" json:"book_id,omitempty"`
	Details   map[string]string `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}

// Recorder stores and lists activity entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	ListForUser(ctx context.Context, userID int64, limit int64) ([]Entry, error)
}

// ClampLimit keeps a requested feed size within bounds.
func ClampLimit(limit int64) int64 {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// Nop discards entries and returns an empty feed. It is used when no
// document store is configured.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

func (Nop) ListForUser(context.Context, int64, int64) ([]Entry, error) {
	return []Entry{}, nil
}
