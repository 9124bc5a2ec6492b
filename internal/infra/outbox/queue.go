package outbox

import (
	"context"
	"time"

	appoutbox "rentdesk/internal/app/outbox"
)

const (
	stateNew     = "NEW"
	stateClaimed = "CLAIMED"
	stateSent    = "SENT"
	stateFailed  = "FAILED"
)

// Message is an outbox record together with its delivery state.
type Message struct {
	appoutbox.EventRecord
	Attempts  int
	LastError string
}

// Queue is the durable side of the outbox: commands Add records, the
// worker claims them one at a time and marks the outcome.
type Queue interface {
	appoutbox.Outbox
	Claim(ctx context.Context, workerID string) (*Message, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error
}
