package dto

import (
	"time"

	"github.com/shopspring/decimal"

	domainpayment "rentdesk/internal/domain/payment"
	"rentdesk/internal/domain/shared/daterange"
)

type Payment struct {
	ID        string          `json:"id"`
	BookingID string          `json:"booking_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Date      string          `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type PaymentCollection struct {
	Items []Payment       `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func MapPayment(p *domainpayment.Payment) Payment {
	return Payment{
		ID:        string(p.ID),
		BookingID: string(p.BookingID),
		Amount:    p.Amount,
		Method:    string(p.Method),
		Date:      daterange.Format(p.Date),
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

func MapPayments(items []*domainpayment.Payment) PaymentCollection {
	out := PaymentCollection{Items: make([]Payment, 0, len(items)), Total: decimal.Zero}
	for _, p := range items {
		out.Items = append(out.Items, MapPayment(p))
		out.Total = out.Total.Add(p.Amount)
	}
	return out
}
