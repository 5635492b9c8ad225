package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Booking represents a reservation of a resource for a half-open time window
// [StartTime, EndTime). Only bookings in an active status consume capacity.
type Booking struct {
	ID         int64
	ResourceID int64
	UserID     int64
	StartTime  time.Time
	EndTime    time.Time
	Purpose    string
	Status     BookingStatus

	ApprovedBy      *int64
	DecisionAt      *time.Time
	RejectionReason *string
	BookedByAdmin   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking counts against resource capacity
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// IsPending returns true if the booking awaits an owner decision
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// Duration returns the length of the booked window
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// Overlaps reports whether the booking overlaps [start, end).
// Touching intervals do not overlap: [a,b) and [b,c) are disjoint.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// ActiveStatuses lists the statuses that consume capacity.
// Used by availability scans and overlap filters.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
}
