package domain

import "time"

// SlotStatus display state of one hourly slot
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotLimited   SlotStatus = "limited"
	SlotFull      SlotStatus = "full"
	SlotDowntime  SlotStatus = "downtime"
)

// Slot is one hourly cell of the projected calendar grid.
// Status is resolved with strict priority: downtime > full > limited > available.
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
	Status    SlotStatus
	Hint      string
	Remaining int
	Capacity  int
}

// IsBookable returns true if at least one spot remains and no downtime applies
func (s *Slot) IsBookable() bool {
	return s.Status == SlotAvailable || s.Status == SlotLimited
}

// SlotDay groups the slots of one calendar day
type SlotDay struct {
	Date  time.Time
	Slots []Slot
}
