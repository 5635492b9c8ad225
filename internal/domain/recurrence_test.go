package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandRecurrence(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	t.Run("daily shifts whole days", func(t *testing.T) {
		occurrences := ExpandRecurrence(start, end, RecurrenceDaily, 3)

		require.Len(t, occurrences, 3)
		for i, occ := range occurrences {
			assert.Equal(t, start.AddDate(0, 0, i), occ.Start)
			assert.Equal(t, end.AddDate(0, 0, i), occ.End)
			assert.Equal(t, 2*time.Hour, occ.End.Sub(occ.Start))
		}
	})

	t.Run("weekly shifts whole weeks", func(t *testing.T) {
		occurrences := ExpandRecurrence(start, end, RecurrenceWeekly, 4)

		require.Len(t, occurrences, 4)
		assert.Equal(t, start, occurrences[0].Start)
		assert.Equal(t, start.AddDate(0, 0, 21), occurrences[3].Start)
		assert.Equal(t, end.AddDate(0, 0, 21), occurrences[3].End)
	})

	t.Run("count clamped to maximum", func(t *testing.T) {
		occurrences := ExpandRecurrence(start, end, RecurrenceDaily, 50)
		assert.Len(t, occurrences, MaxRecurrenceCount)
	})

	t.Run("count below one yields single occurrence", func(t *testing.T) {
		occurrences := ExpandRecurrence(start, end, RecurrenceDaily, 0)
		require.Len(t, occurrences, 1)
		assert.Equal(t, start, occurrences[0].Start)
	})

	t.Run("no cadence ignores count", func(t *testing.T) {
		occurrences := ExpandRecurrence(start, end, RecurrenceNone, 5)
		require.Len(t, occurrences, 1)
		assert.Equal(t, start, occurrences[0].Start)
		assert.Equal(t, end, occurrences[0].End)
	})
}
