package system

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"rentdesk/internal/app/policies"
)

// Clock reads the wall clock.
type Clock struct{}

func (Clock) Now() time.Time { return time.Now() }

// UUIDs generates random UUIDv4 identifiers.
type UUIDs struct{}

func (UUIDs) NewID() string { return uuid.NewString() }

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// SequentialIDs yields Prefix1, Prefix2, ... and is safe for concurrent use.
type SequentialIDs struct {
	Prefix string
	n      atomic.Int64
}

func (s *SequentialIDs) NewID() string {
	return fmt.Sprintf("%s%d", s.Prefix, s.n.Add(1))
}

var (
	_ policies.Clock       = Clock{}
	_ policies.Clock       = FixedClock{}
	_ policies.IDGenerator = UUIDs{}
	_ policies.IDGenerator = (*SequentialIDs)(nil)
)
