package reporting

import (
	"github.com/shopspring/decimal"

	"rentdesk/internal/domain/booking"
	"rentdesk/internal/domain/customer"
	"rentdesk/internal/domain/payment"
)

type CustomerStats struct {
	CustomerID     customer.CustomerID
	TotalBookings  int
	ActiveBookings int
	TotalSpent     decimal.Decimal
}

// StatsForCustomer derives a customer's figures from the store contents on
// every call; nothing is cached on the customer record.
func StatsForCustomer(id customer.CustomerID, bookings []*booking.Booking, payments []*payment.Payment) CustomerStats {
	stats := CustomerStats{CustomerID: id, TotalSpent: decimal.Zero}
	owned := make(map[booking.BookingID]struct{})
	for _, b := range bookings {
		if b == nil || b.CustomerID != id {
			continue
		}
		owned[b.ID] = struct{}{}
		stats.TotalBookings++
		if b.Active() {
			stats.ActiveBookings++
		}
	}
	for _, p := range payments {
		if p == nil {
			continue
		}
		if _, ok := owned[p.BookingID]; ok {
			stats.TotalSpent = stats.TotalSpent.Add(p.Amount)
		}
	}
	return stats
}
