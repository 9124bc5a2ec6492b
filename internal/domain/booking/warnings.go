package booking

import "fmt"

type WarningCode string

const (
	WarningGuestLimitExceeded WarningCode = "GUEST_LIMIT_EXCEEDED"
	WarningOverlappingBooking WarningCode = "OVERLAPPING_BOOKING"
)

// Warning is advisory: the operation it accompanies has succeeded.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// CheckGuestLimit flags a guest count above the property capacity.
// Operators may overbook capacity on purpose, so this never rejects.
func CheckGuestLimit(guests, maxGuests int) (Warning, bool) {
	if maxGuests <= 0 || guests <= maxGuests {
		return Warning{}, false
	}
	return Warning{
		Code:    WarningGuestLimitExceeded,
		Message: fmt.Sprintf("%d guests exceed the property limit of %d", guests, maxGuests),
	}, true
}

// OverlapWarning describes bookings that already hold some of the dates.
func OverlapWarning(others []*Booking) (Warning, bool) {
	if len(others) == 0 {
		return Warning{}, false
	}
	ids := make([]string, 0, len(others))
	for _, o := range others {
		ids = append(ids, string(o.ID))
	}
	return Warning{
		Code:    WarningOverlappingBooking,
		Message: fmt.Sprintf("dates overlap %d existing booking(s): %v", len(others), ids),
	}, true
}
