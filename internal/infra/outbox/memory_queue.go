package outbox

import (
	"context"
	"sync"
	"time"

	appoutbox "rentdesk/internal/app/outbox"
)

// MemoryQueue keeps pending messages in process, in insertion order.
// Sent messages are dropped.
type MemoryQueue struct {
	mu    sync.Mutex
	items []*memoryEntry
	now   func() time.Time
}

type memoryEntry struct {
	msg         Message
	state       string
	nextAttempt time.Time
}

func NewMemoryQueue(now func() time.Time) *MemoryQueue {
	if now == nil {
		now = time.Now
	}
	return &MemoryQueue{now: now}
}

func (q *MemoryQueue) Add(ctx context.Context, records ...appoutbox.EventRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	at := q.now()
	for _, rec := range records {
		q.items = append(q.items, &memoryEntry{msg: Message{EventRecord: rec}, state: stateNew, nextAttempt: at})
	}
	return nil
}

func (q *MemoryQueue) Claim(ctx context.Context, workerID string) (*Message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.now()
	for _, e := range q.items {
		if (e.state == stateNew || e.state == stateFailed) && !e.nextAttempt.After(now) {
			e.state = stateClaimed
			msg := e.msg
			return &msg, nil
		}
	}
	return nil, nil
}

func (q *MemoryQueue) MarkSent(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.items {
		if e.msg.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (q *MemoryQueue) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.items {
		if e.msg.ID == id {
			e.state = stateFailed
			e.nextAttempt = next
			e.msg.Attempts++
			e.msg.LastError = errMsg
			return nil
		}
	}
	return nil
}

// Pending reports how many messages have not been sent yet.
func (q *MemoryQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

var _ Queue = (*MemoryQueue)(nil)
