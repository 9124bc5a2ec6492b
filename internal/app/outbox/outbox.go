package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"rentdesk/internal/domain/shared/events"
)

var ErrBatchMissing = errors.New("outbox: no event batch in context")

type EventRecord struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Payload    []byte            `json:"payload"`
	OccurredAt time.Time         `json:"occurred_at"`
	Aggregate  string            `json:"aggregate"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Outbox is the durable queue drained by the publishing worker.
type Outbox interface {
	Add(ctx context.Context, records ...EventRecord) error
}

// Discard drops every record. It stands in when no broker is configured
// and events need not be kept.
type Discard struct{}

func (Discard) Add(context.Context, ...EventRecord) error { return nil }

type EventEncoder interface {
	Encode(ev events.DomainEvent) (EventRecord, error)
}

type JSONEventEncoder struct {
	IDGenerator func() string
}

func (e JSONEventEncoder) Encode(ev events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return EventRecord{}, err
	}
	idGen := e.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}
	return EventRecord{
		ID:         idGen(),
		Name:       ev.EventName(),
		Payload:    payload,
		OccurredAt: ev.OccurredAt().UTC(),
		Aggregate:  ev.AggregateID(),
		Headers:    map[string]string{},
	}, nil
}

// Batch collects the records produced by one command. It is handed to the
// outbox only after the command's unit of work has committed.
type Batch struct {
	mu      sync.Mutex
	records []EventRecord
}

func (b *Batch) add(rec EventRecord) {
	b.mu.Lock()
	b.records = append(b.records, rec)
	b.mu.Unlock()
}

func (b *Batch) Records() []EventRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]EventRecord, len(b.records))
	copy(out, b.records)
	return out
}

type batchKey struct{}

func ContextWithBatch(ctx context.Context, b *Batch) context.Context {
	return context.WithValue(ctx, batchKey{}, b)
}

func BatchFromContext(ctx context.Context) (*Batch, bool) {
	b, ok := ctx.Value(batchKey{}).(*Batch)
	return b, ok && b != nil
}

// RecordDomainEvents encodes evs into the batch carried by ctx.
func RecordDomainEvents(ctx context.Context, encoder EventEncoder, evs []events.DomainEvent) error {
	if len(evs) == 0 {
		return nil
	}
	batch, ok := BatchFromContext(ctx)
	if !ok {
		return ErrBatchMissing
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	for _, ev := range evs {
		rec, err := encoder.Encode(ev)
		if err != nil {
			return err
		}
		batch.add(rec)
	}
	return nil
}
