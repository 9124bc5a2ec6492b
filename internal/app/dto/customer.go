package dto

import (
	"time"

	"github.com/shopspring/decimal"

	domaincustomer "rentdesk/internal/domain/customer"
	"rentdesk/internal/domain/reporting"
)

type Customer struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone"`
	Email     string         `json:"email,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Stats     *CustomerStats `json:"stats,omitempty"`
}

type CustomerStats struct {
	TotalBookings  int             `json:"total_bookings"`
	ActiveBookings int             `json:"active_bookings"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
}

type CustomerCollection struct {
	Items []Customer `json:"items"`
}

func MapCustomer(c *domaincustomer.Customer) Customer {
	return Customer{
		ID:        string(c.ID),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}
}

func MapCustomerStats(s reporting.CustomerStats) *CustomerStats {
	return &CustomerStats{
		TotalBookings:  s.TotalBookings,
		ActiveBookings: s.ActiveBookings,
		TotalSpent:     s.TotalSpent,
	}
}
