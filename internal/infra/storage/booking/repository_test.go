package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	"github.com/m04kA/CRH-SchedulingService/pkg/ptr"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func bookingRows(bookings ...*domain.Booking) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "resource_id", "user_id", "start_time", "end_time", "purpose",
		"status", "approved_by", "decision_at", "rejection_reason",
		"booked_by_admin", "created_at", "updated_at",
	})
	for _, b := range bookings {
		rows.AddRow(
			b.ID, b.ResourceID, b.UserID, b.StartTime, b.EndTime, b.Purpose,
			b.Status, b.ApprovedBy, b.DecisionAt, b.RejectionReason,
			b.BookedByAdmin, b.CreatedAt, b.UpdatedAt,
		)
	}
	return rows
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	booking := &domain.Booking{
		ResourceID: 7,
		UserID:     42,
		StartTime:  start,
		EndTime:    end,
		Purpose:    "team sync",
		Status:     domain.StatusPending,
	}

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(int64(7), int64(42), start, end, "team sync",
			domain.StatusPending, nil, nil, nil, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(101), now, now))

	created, err := repo.Create(context.Background(), booking)
	require.NoError(t, err)

	assert.Equal(t, int64(101), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.Equal(t, now, created.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMock(t)

		start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
		existing := &domain.Booking{
			ID:         101,
			ResourceID: 7,
			UserID:     42,
			StartTime:  start,
			EndTime:    start.Add(time.Hour),
			Purpose:    "team sync",
			Status:     domain.StatusApproved,
			ApprovedBy: ptr.Ptr(int64(3)),
			DecisionAt: ptr.Ptr(start.Add(-24 * time.Hour)),
			CreatedAt:  start.Add(-48 * time.Hour),
			UpdatedAt:  start.Add(-24 * time.Hour),
		}

		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = ").
			WithArgs(int64(101)).
			WillReturnRows(bookingRows(existing))

		got, err := repo.GetByID(context.Background(), 101)
		require.NoError(t, err)

		assert.Equal(t, existing.ID, got.ID)
		assert.Equal(t, existing.Status, got.Status)
		require.NotNil(t, got.ApprovedBy)
		assert.Equal(t, int64(3), *got.ApprovedBy)
		require.NotNil(t, got.DecisionAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = ").
			WithArgs(int64(999)).
			WillReturnRows(bookingRows())

		_, err := repo.GetByID(context.Background(), 999)
		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListActiveOverlapping(t *testing.T) {
	t.Run("half-open window excludes given booking", func(t *testing.T) {
		repo, mock := newMock(t)

		start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
		end := start.Add(2 * time.Hour)
		overlapping := &domain.Booking{
			ID:         55,
			ResourceID: 7,
			UserID:     11,
			StartTime:  start.Add(-time.Hour),
			EndTime:    start.Add(time.Hour),
			Status:     domain.StatusApproved,
		}

		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE resource_id = (.+) AND start_time < (.+) AND end_time > ").
			WithArgs(int64(7), string(domain.StatusPending), string(domain.StatusApproved),
				end, start, int64(101)).
			WillReturnRows(bookingRows(overlapping))

		got, err := repo.ListActiveOverlapping(context.Background(), 7, start, end, ptr.Ptr(int64(101)))
		require.NoError(t, err)

		require.Len(t, got, 1)
		assert.Equal(t, int64(55), got[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result", func(t *testing.T) {
		repo, mock := newMock(t)

		start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE resource_id = ").
			WillReturnRows(bookingRows())

		got, err := repo.ListActiveOverlapping(context.Background(), 7, start, start.Add(time.Hour), nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestApprove(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := newMock(t)

		decidedAt := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

		mock.ExpectExec("UPDATE bookings SET status = ").
			WithArgs(string(domain.StatusApproved), int64(3), decidedAt, decidedAt, int64(101)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Approve(context.Background(), 101, 3, decidedAt)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing booking", func(t *testing.T) {
		repo, mock := newMock(t)

		decidedAt := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

		mock.ExpectExec("UPDATE bookings SET status = ").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Approve(context.Background(), 999, 3, decidedAt)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestDelete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("DELETE FROM bookings WHERE id = ").
			WithArgs(int64(101)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), 101)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing booking", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("DELETE FROM bookings WHERE id = ").
			WithArgs(int64(999)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), 999)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}
