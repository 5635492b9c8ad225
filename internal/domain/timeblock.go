package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEndBeforeStart is returned when the window is empty or inverted
	ErrEndBeforeStart = errors.New("end time must be after start time")

	// ErrNotHourAligned is returned when a timestamp has a non-zero
	// minute, second or sub-second component
	ErrNotHourAligned = errors.New("bookings must start and end on the hour")

	// ErrDurationOutOfRange is returned when the duration is outside
	// the [MinBookingHours, MaxBookingHours] policy
	ErrDurationOutOfRange = fmt.Errorf("bookings must be between %d and %d hours long",
		MinBookingHours, MaxBookingHours)
)

// ValidateTimeBlock enforces the structural rules every requested interval
// must pass before any capacity logic runs: start < end, whole-hour
// alignment, and duration within [MinBookingHours, MaxBookingHours].
// Pure function, no side effects.
func ValidateTimeBlock(start, end time.Time) error {
	if !start.Before(end) {
		return ErrEndBeforeStart
	}

	if !isHourAligned(start) || !isHourAligned(end) {
		return ErrNotHourAligned
	}

	hours := end.Sub(start).Hours()
	if hours < MinBookingHours || hours > MaxBookingHours {
		return ErrDurationOutOfRange
	}

	return nil
}

func isHourAligned(t time.Time) bool {
	return t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
