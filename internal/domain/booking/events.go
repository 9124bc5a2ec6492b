package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/internal/domain/customer"
	"rentdesk/internal/domain/property"
	"rentdesk/internal/domain/shared/daterange"
)

type BookingCreated struct {
	BookingID  BookingID           `json:"booking_id"`
	PropertyID property.PropertyID `json:"property_id"`
	CustomerID customer.CustomerID `json:"customer_id"`
	Range      daterange.DateRange `json:"range"`
	Guests     int                 `json:"guests"`
	Total      decimal.Decimal     `json:"total"`
	At         time.Time           `json:"at"`
}

func (e BookingCreated) EventName() string     { return "booking.created" }
func (e BookingCreated) AggregateID() string   { return string(e.BookingID) }
func (e BookingCreated) OccurredAt() time.Time { return e.At }

type BookingUpdated struct {
	BookingID BookingID           `json:"booking_id"`
	Range     daterange.DateRange `json:"range"`
	Guests    int                 `json:"guests"`
	Rate      decimal.Decimal     `json:"rate"`
	Total     decimal.Decimal     `json:"total"`
	At        time.Time           `json:"at"`
}

func (e BookingUpdated) EventName() string     { return "booking.updated" }
func (e BookingUpdated) AggregateID() string   { return string(e.BookingID) }
func (e BookingUpdated) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID  BookingID           `json:"booking_id"`
	PropertyID property.PropertyID `json:"property_id"`
	PaidAmount decimal.Decimal     `json:"paid_amount"`
	At         time.Time           `json:"at"`
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type BookingCompleted struct {
	BookingID BookingID       `json:"booking_id"`
	Total     decimal.Decimal `json:"total"`
	At        time.Time       `json:"at"`
}

func (e BookingCompleted) EventName() string     { return "booking.completed" }
func (e BookingCompleted) AggregateID() string   { return string(e.BookingID) }
func (e BookingCompleted) OccurredAt() time.Time { return e.At }

// PaymentWrittenOff records collected money dropped by an edit that
// lowered the total below the paid amount.
type PaymentWrittenOff struct {
	BookingID BookingID       `json:"booking_id"`
	Amount    decimal.Decimal `json:"amount"`
	At        time.Time       `json:"at"`
}

func (e PaymentWrittenOff) EventName() string     { return "booking.payment_written_off" }
func (e PaymentWrittenOff) AggregateID() string   { return string(e.BookingID) }
func (e PaymentWrittenOff) OccurredAt() time.Time { return e.At }
