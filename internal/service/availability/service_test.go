package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	resourceRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/resource"
)

type fakeResourceRepo struct {
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Resource, error)
}

func (f *fakeResourceRepo) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	return f.GetByIDFunc(ctx, id)
}

type fakeBookingRepo struct {
	ListActiveOverlappingFunc func(ctx context.Context, resourceID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
}

func (f *fakeBookingRepo) ListActiveOverlapping(ctx context.Context, resourceID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	return f.ListActiveOverlappingFunc(ctx, resourceID, start, end, excludeID)
}

type fakeDowntimeRepo struct {
	ListOverlappingFunc func(ctx context.Context, resourceID int64, start, end time.Time) ([]*domain.DowntimeBlock, error)
}

func (f *fakeDowntimeRepo) ListOverlapping(ctx context.Context, resourceID int64, start, end time.Time) ([]*domain.DowntimeBlock, error) {
	return f.ListOverlappingFunc(ctx, resourceID, start, end)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func publishedResource(capacity int) *domain.Resource {
	return &domain.Resource{
		ID:         1,
		OwnerID:    10,
		Title:      "Study Room A",
		Capacity:   capacity,
		AccessType: domain.AccessPublic,
		Status:     domain.ResourcePublished,
	}
}

func activeBookings(n int) []*domain.Booking {
	bookings := make([]*domain.Booking, 0, n)
	for i := 0; i < n; i++ {
		bookings = append(bookings, &domain.Booking{ID: int64(i + 1), Status: domain.StatusApproved})
	}
	return bookings
}

func TestRemainingCapacity(t *testing.T) {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	testCases := []struct {
		name              string
		capacity          int
		overlapping       int
		downtime          []*domain.DowntimeBlock
		expectedRemaining int
		expectedDowntime  bool
	}{
		{
			name:              "empty calendar keeps full capacity",
			capacity:          3,
			overlapping:       0,
			expectedRemaining: 3,
		},
		{
			name:              "each overlap takes one seat",
			capacity:          3,
			overlapping:       2,
			expectedRemaining: 1,
		},
		{
			name:              "overbooked window clamps to zero",
			capacity:          2,
			overlapping:       5,
			expectedRemaining: 0,
		},
		{
			name:        "downtime vetoes regardless of bookings",
			capacity:    10,
			overlapping: 0,
			downtime: []*domain.DowntimeBlock{
				{ID: 7, ResourceID: 1, StartTime: start, EndTime: end},
			},
			expectedRemaining: 0,
			expectedDowntime:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(
				&fakeResourceRepo{},
				&fakeBookingRepo{
					ListActiveOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time, excludeID *int64) ([]*domain.Booking, error) {
						return activeBookings(tc.overlapping), nil
					},
				},
				&fakeDowntimeRepo{
					ListOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time) ([]*domain.DowntimeBlock, error) {
						return tc.downtime, nil
					},
				},
				nopLogger{},
			)

			avail, err := svc.RemainingCapacity(context.Background(), publishedResource(tc.capacity), start, end, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedRemaining, avail.Remaining)
			if tc.expectedDowntime {
				assert.NotNil(t, avail.Downtime)
				assert.False(t, avail.Available())
			} else {
				assert.Nil(t, avail.Downtime)
			}
		})
	}
}

func TestRemainingCapacity_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	start := time.Date(2026, 3, 2, 17, 0, 0, 0, loc)
	end := start.Add(time.Hour)

	var seenStart, seenEnd time.Time
	svc := NewService(
		&fakeResourceRepo{},
		&fakeBookingRepo{
			ListActiveOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time, excludeID *int64) ([]*domain.Booking, error) {
				seenStart, seenEnd = s, e
				return nil, nil
			},
		},
		&fakeDowntimeRepo{
			ListOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time) ([]*domain.DowntimeBlock, error) {
				return nil, nil
			},
		},
		nopLogger{},
	)

	_, err := svc.RemainingCapacity(context.Background(), publishedResource(1), start, end, nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, seenStart.Location())
	assert.Equal(t, time.UTC, seenEnd.Location())
	assert.True(t, seenStart.Equal(start))
	assert.True(t, seenEnd.Equal(end))
}

func TestEnsureCapacity(t *testing.T) {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("passes when a seat is free", func(t *testing.T) {
		svc := NewService(
			&fakeResourceRepo{},
			&fakeBookingRepo{
				ListActiveOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time, excludeID *int64) ([]*domain.Booking, error) {
					return activeBookings(1), nil
				},
			},
			&fakeDowntimeRepo{
				ListOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time) ([]*domain.DowntimeBlock, error) {
					return nil, nil
				},
			},
			nopLogger{},
		)

		err := svc.EnsureCapacity(context.Background(), publishedResource(2), start, end, nil)
		assert.NoError(t, err)
	})

	t.Run("rejects a full window", func(t *testing.T) {
		svc := NewService(
			&fakeResourceRepo{},
			&fakeBookingRepo{
				ListActiveOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time, excludeID *int64) ([]*domain.Booking, error) {
					return activeBookings(2), nil
				},
			},
			&fakeDowntimeRepo{
				ListOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time) ([]*domain.DowntimeBlock, error) {
					return nil, nil
				},
			},
			nopLogger{},
		)

		err := svc.EnsureCapacity(context.Background(), publishedResource(2), start, end, nil)
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("rejects a downtime window", func(t *testing.T) {
		svc := NewService(
			&fakeResourceRepo{},
			&fakeBookingRepo{
				ListActiveOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time, excludeID *int64) ([]*domain.Booking, error) {
					return nil, nil
				},
			},
			&fakeDowntimeRepo{
				ListOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time) ([]*domain.DowntimeBlock, error) {
					return []*domain.DowntimeBlock{{ID: 1, ResourceID: 1, StartTime: s, EndTime: e}}, nil
				},
			},
			nopLogger{},
		)

		err := svc.EnsureCapacity(context.Background(), publishedResource(5), start, end, nil)
		assert.ErrorIs(t, err, ErrResourceUnderDowntime)
	})

	t.Run("excludes the booking being moved", func(t *testing.T) {
		excluded := int64(42)
		svc := NewService(
			&fakeResourceRepo{},
			&fakeBookingRepo{
				ListActiveOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time, excludeID *int64) ([]*domain.Booking, error) {
					require.NotNil(t, excludeID)
					assert.Equal(t, excluded, *excludeID)
					return nil, nil
				},
			},
			&fakeDowntimeRepo{
				ListOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time) ([]*domain.DowntimeBlock, error) {
					return nil, nil
				},
			},
			nopLogger{},
		)

		err := svc.EnsureCapacity(context.Background(), publishedResource(1), start, end, &excluded)
		assert.NoError(t, err)
	})
}

func TestCheckWindow(t *testing.T) {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	t.Run("unknown resource", func(t *testing.T) {
		svc := NewService(
			&fakeResourceRepo{
				GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
					return nil, resourceRepo.ErrResourceNotFound
				},
			},
			&fakeBookingRepo{},
			&fakeDowntimeRepo{},
			nopLogger{},
		)

		_, err := svc.CheckWindow(context.Background(), 99, start, start.Add(time.Hour))
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("draft resource is not bookable", func(t *testing.T) {
		svc := NewService(
			&fakeResourceRepo{
				GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
					r := publishedResource(2)
					r.Status = domain.ResourceDraft
					return r, nil
				},
			},
			&fakeBookingRepo{},
			&fakeDowntimeRepo{},
			nopLogger{},
		)

		_, err := svc.CheckWindow(context.Background(), 1, start, start.Add(time.Hour))
		assert.ErrorIs(t, err, ErrResourceNotBookable)
	})

	t.Run("instant window counts covering bookings", func(t *testing.T) {
		var seenStart, seenEnd time.Time
		svc := NewService(
			&fakeResourceRepo{
				GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
					return publishedResource(2), nil
				},
			},
			&fakeBookingRepo{
				ListActiveOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time, excludeID *int64) ([]*domain.Booking, error) {
					seenStart, seenEnd = s, e
					return activeBookings(1), nil
				},
			},
			&fakeDowntimeRepo{
				ListOverlappingFunc: func(ctx context.Context, resourceID int64, s, e time.Time) ([]*domain.DowntimeBlock, error) {
					return nil, nil
				},
			},
			nopLogger{},
		)

		avail, err := svc.CheckWindow(context.Background(), 1, start, start)
		require.NoError(t, err)
		assert.Equal(t, 1, avail.Remaining)
		assert.True(t, seenStart.Equal(seenEnd))
	})
}
