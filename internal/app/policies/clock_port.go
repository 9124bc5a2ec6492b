package policies

import "time"

// Clock supplies the current instant. Handlers derive "today" from it, so
// tests pin it to a fixed date.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// IDGenerator issues opaque identifiers for new records.
type IDGenerator interface {
	NewID() string
}

type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string { return f() }
