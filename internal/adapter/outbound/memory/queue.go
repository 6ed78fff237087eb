package memory

import (
	"sync"

	"github.com/paranoialabs/paranoia/internal/port/outbound"
)

// ResetQueue implements outbound.ResetQueue with an in-memory FIFO.
// Items already pending for the same account are not enqueued again, so a
// sweep racing a slow worker cannot double-queue an account.
type ResetQueue struct {
	mu      sync.Mutex
	items   []outbound.ResetItem
	pending map[int64]struct{}
}

// NewResetQueue creates an empty in-memory reset queue.
func NewResetQueue() *ResetQueue {
	return &ResetQueue{pending: make(map[int64]struct{})}
}

// Enqueue adds an item unless the account already has one pending.
func (q *ResetQueue) Enqueue(item outbound.ResetItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.pending[item.UID]; ok {
		return nil
	}
	q.pending[item.UID] = struct{}{}
	q.items = append(q.items, item)
	return nil
}

// Dequeue removes and returns the next item, or nil when empty.
func (q *ResetQueue) Dequeue() (*outbound.ResetItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, nil
	}
	item := q.items[0]
	q.items = q.items[1:]
	delete(q.pending, item.UID)
	return &item, nil
}

// Len returns the number of pending items.
func (q *ResetQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Compile-time interface verification.
var _ outbound.ResetQueue = (*ResetQueue)(nil)
