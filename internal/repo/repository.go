package repo

import (
	"context"
	"time"

	"github.com/hamed0406/connprobe/internal/domain"
)

// StateRecord holds the last up/down state seen for a backend and the last
// time a notification went out for it (used for cooldown). PendingDown marks
// a DOWN that was suppressed and still has to be announced.
type StateRecord struct {
	Backend     domain.Backend `json:"backend"`
	LastUp      bool           `json:"last_up"`
	PendingDown bool           `json:"pending_down,omitempty"`
	LastSentAt  *time.Time     `json:"last_sent_at,omitempty"`
}

// StateStore is implemented by a persistence layer to keep watcher state.
type StateStore interface {
	// Get returns nil, nil if there's no record yet.
	Get(ctx context.Context, b domain.Backend) (*StateRecord, error)
	// Set upserts rec under rec.Backend. A nil LastSentAt clears the send time.
	Set(ctx context.Context, rec StateRecord) error
}
