package booking

import (
	"errors"
	"time"

	"rentdesk/internal/domain/shared/daterange"
)

var ErrCheckInInPast = errors.New("booking: check-in date is in the past")

// ValidateCheckIn rejects check-in dates before today, comparing calendar dates only.
func ValidateCheckIn(checkIn, today time.Time) error {
	if daterange.Date(checkIn).Before(daterange.Date(today)) {
		return ErrCheckInInPast
	}
	return nil
}
