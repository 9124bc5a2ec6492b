package dto

import (
	"rentdesk/internal/domain/availability"
	"rentdesk/internal/domain/shared/daterange"
)

type CalendarDay struct {
	Date       string   `json:"date"`
	Occupied   bool     `json:"occupied"`
	BookingIDs []string `json:"booking_ids,omitempty"`
}

type Calendar struct {
	PropertyID string        `json:"property_id"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	Days       []CalendarDay `json:"days"`
}

func MapCalendar(propertyID string, dr daterange.DateRange, days []availability.Day) Calendar {
	out := Calendar{
		PropertyID: propertyID,
		From:       daterange.Format(dr.CheckIn),
		To:         daterange.Format(dr.CheckOut),
		Days:       make([]CalendarDay, 0, len(days)),
	}
	for _, d := range days {
		day := CalendarDay{Date: daterange.Format(d.Date), Occupied: d.Occupied}
		for _, id := range d.BookingIDs {
			day.BookingIDs = append(day.BookingIDs, string(id))
		}
		out.Days = append(out.Days, day)
	}
	return out
}

// InventoryItem is one property's badge on a given date.
type InventoryItem struct {
	PropertyID string `json:"property_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Badge      string `json:"badge"`
}

type Inventory struct {
	Date  string          `json:"date"`
	Items []InventoryItem `json:"items"`
}
