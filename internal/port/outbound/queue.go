package outbound

import "github.com/google/uuid"

// ResetItem is one queued stale-account reset.
type ResetItem struct {
	// ID is the queue item identifier.
	ID string
	// UID is the account to reset.
	UID int64
}

// NewResetItem creates a reset item for the given account.
func NewResetItem(uid int64) ResetItem {
	return ResetItem{ID: uuid.NewString(), UID: uid}
}

// ResetQueue is the host queue the sweep feeds and the worker drains.
// Delivery is at-least-once with no ordering guarantee; the reset operation
// is idempotent so duplicates are harmless. Retry and backoff of failed
// items belong to the queue implementation, not the worker.
type ResetQueue interface {
	// Enqueue adds an item for later processing.
	Enqueue(item ResetItem) error
	// Dequeue removes and returns the next item, or nil when empty.
	Dequeue() (*ResetItem, error)
	// Len returns the number of pending items.
	Len() int
}
