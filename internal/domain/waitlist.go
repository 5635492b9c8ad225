package domain

import "time"

// WaitlistStatus status of a waitlist entry
type WaitlistStatus string

const (
	WaitlistWaiting   WaitlistStatus = "waiting"
	WaitlistConverted WaitlistStatus = "converted"
)

// WaitlistEntry is a queued request for an exact time window on a resource.
// Position is assigned as max(position for resource)+1 inside the insert
// transaction; promotion matches on exact (StartTime, EndTime) equality only.
type WaitlistEntry struct {
	ID         int64
	ResourceID int64
	UserID     int64
	StartTime  time.Time
	EndTime    time.Time
	Purpose    *string
	Position   *int
	Status     WaitlistStatus
	Notified   bool
	CreatedAt  time.Time
}

// IsWaiting returns true if the entry is still eligible for promotion
func (w *WaitlistEntry) IsWaiting() bool {
	return w.Status == WaitlistWaiting
}
