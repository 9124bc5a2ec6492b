package dto

import (
	"time"

	"github.com/shopspring/decimal"

	domainbooking "rentdesk/internal/domain/booking"
	"rentdesk/internal/domain/shared/daterange"
)

type Booking struct {
	ID             string          `json:"id"`
	PropertyID     string          `json:"property_id"`
	CustomerID     string          `json:"customer_id"`
	GuestName      string          `json:"guest_name"`
	GuestPhone     string          `json:"guest_phone"`
	CheckIn        string          `json:"check_in"`
	CheckOut       string          `json:"check_out"`
	Days           int             `json:"days"`
	Nights         int             `json:"nights"`
	Guests         int             `json:"guests"`
	NegotiatedRate decimal.Decimal `json:"negotiated_rate"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	Balance        decimal.Decimal `json:"balance"`
	Status         string          `json:"status"`
	IsNewCustomer  bool            `json:"is_new_customer"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type BookingCollection struct {
	Items []Booking `json:"items"`
}

func MapBooking(b *domainbooking.Booking) Booking {
	return Booking{
		ID:             string(b.ID),
		PropertyID:     string(b.PropertyID),
		CustomerID:     string(b.CustomerID),
		GuestName:      b.GuestName,
		GuestPhone:     b.GuestPhone,
		CheckIn:        daterange.Format(b.Range.CheckIn),
		CheckOut:       daterange.Format(b.Range.CheckOut),
		Days:           b.Days,
		Nights:         b.Nights,
		Guests:         b.Guests,
		NegotiatedRate: b.NegotiatedRate,
		TotalAmount:    b.TotalAmount,
		PaidAmount:     b.PaidAmount,
		Balance:        b.Balance(),
		Status:         string(b.Status),
		IsNewCustomer:  b.IsNewCustomer,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func MapBookings(items []*domainbooking.Booking) BookingCollection {
	out := BookingCollection{Items: make([]Booking, 0, len(items))}
	for _, b := range items {
		out.Items = append(out.Items, MapBooking(b))
	}
	return out
}
