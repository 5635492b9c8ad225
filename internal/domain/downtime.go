package domain

import "time"

// DowntimeBlock is an administrator-declared maintenance interval.
// Any overlap with a requested window makes the window entirely
// unbookable regardless of remaining capacity.
type DowntimeBlock struct {
	ID         int64
	ResourceID int64
	StartTime  time.Time
	EndTime    time.Time
	Reason     *string
	CreatedAt  time.Time
}

// Overlaps reports whether the block overlaps [start, end)
func (d *DowntimeBlock) Overlaps(start, end time.Time) bool {
	return d.StartTime.Before(end) && d.EndTime.After(start)
}

// ReasonOrDefault returns the block reason, or a fallback label
func (d *DowntimeBlock) ReasonOrDefault() string {
	if d.Reason == nil || *d.Reason == "" {
		return "maintenance"
	}
	return *d.Reason
}
