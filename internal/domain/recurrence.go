package domain

import "time"

// RecurrenceCadence cadence of a recurring booking request
type RecurrenceCadence string

const (
	RecurrenceNone   RecurrenceCadence = "none"
	RecurrenceDaily  RecurrenceCadence = "daily"
	RecurrenceWeekly RecurrenceCadence = "weekly"
)

// Occurrence is one expanded (start, end) pair of a recurring request
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// ExpandRecurrence expands a requested window into occurrences under the
// given cadence. Count is clamped into [1, MaxRecurrenceCount]; occurrence i
// shifts both endpoints by i cadence steps, preserving duration. Generated
// occurrences are fully independent bookings with no group identity, and no
// dedup or merge is applied: overlapping occurrences are left to downstream
// capacity checks to reject individually.
func ExpandRecurrence(start, end time.Time, cadence RecurrenceCadence, count int) []Occurrence {
	if count < 1 {
		count = 1
	}
	if count > MaxRecurrenceCount {
		count = MaxRecurrenceCount
	}

	occurrences := []Occurrence{{Start: start, End: end}}

	var step func(t time.Time, i int) time.Time
	switch cadence {
	case RecurrenceDaily:
		step = func(t time.Time, i int) time.Time { return t.AddDate(0, 0, i) }
	case RecurrenceWeekly:
		step = func(t time.Time, i int) time.Time { return t.AddDate(0, 0, 7*i) }
	default:
		return occurrences
	}

	for i := 1; i < count; i++ {
		occurrences = append(occurrences, Occurrence{
			Start: step(start, i),
			End:   step(end, i),
		})
	}

	return occurrences
}
