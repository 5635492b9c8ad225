package domain

// Booking window policy
const (
	MinBookingHours = 1
	MaxBookingHours = 10
)

// Recurrence policy
const (
	MaxRecurrenceCount = 10
)

// Slot grid projection defaults
const (
	DefaultGridDays     = 3
	DefaultDayStartHour = 7
	DefaultDayEndHour   = 22
)

// Time format constants
const (
	SlotTimeFormat = "2006-01-02T15:04" // ISO minute precision used by the slot grid
	DayLabelFormat = "Monday, Jan 02"
	HourLabelFormat = "03:04 PM"
)
