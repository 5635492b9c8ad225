package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	waitlistRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/waitlist"
	"github.com/m04kA/CRH-SchedulingService/internal/service/availability"
)

type fakeWaitlistRepo struct {
	CreateFunc              func(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	MaxPositionFunc         func(ctx context.Context, resourceID int64) (int, error)
	FindByUserAndWindowFunc func(ctx context.Context, resourceID, userID int64, start, end time.Time) (*domain.WaitlistEntry, error)
	NextWaitingFunc         func(ctx context.Context, resourceID int64, start, end time.Time) (*domain.WaitlistEntry, error)
	RequeueFunc             func(ctx context.Context, id int64, position int, createdAt time.Time) error
	MarkConvertedFunc       func(ctx context.Context, id int64) error
}

func (f *fakeWaitlistRepo) Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	return f.CreateFunc(ctx, entry)
}

func (f *fakeWaitlistRepo) MaxPosition(ctx context.Context, resourceID int64) (int, error) {
	return f.MaxPositionFunc(ctx, resourceID)
}

func (f *fakeWaitlistRepo) FindByUserAndWindow(ctx context.Context, resourceID, userID int64, start, end time.Time) (*domain.WaitlistEntry, error) {
	return f.FindByUserAndWindowFunc(ctx, resourceID, userID, start, end)
}

func (f *fakeWaitlistRepo) NextWaiting(ctx context.Context, resourceID int64, start, end time.Time) (*domain.WaitlistEntry, error) {
	return f.NextWaitingFunc(ctx, resourceID, start, end)
}

func (f *fakeWaitlistRepo) Requeue(ctx context.Context, id int64, position int, createdAt time.Time) error {
	return f.RequeueFunc(ctx, id, position, createdAt)
}

func (f *fakeWaitlistRepo) MarkConverted(ctx context.Context, id int64) error {
	return f.MarkConvertedFunc(ctx, id)
}

type fakeBookingRepo struct {
	CreateFunc func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	return f.CreateFunc(ctx, booking)
}

type fakeResourceRepo struct {
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Resource, error)
}

func (f *fakeResourceRepo) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	return f.GetByIDFunc(ctx, id)
}

type fakeApprovalRepo struct {
	CreateFunc func(ctx context.Context, request *domain.ApprovalRequest) (*domain.ApprovalRequest, error)
}

func (f *fakeApprovalRepo) Create(ctx context.Context, request *domain.ApprovalRequest) (*domain.ApprovalRequest, error) {
	return f.CreateFunc(ctx, request)
}

type fakeAvailability struct {
	RemainingCapacityFunc func(ctx context.Context, resource *domain.Resource, start, end time.Time, excludeBookingID *int64) (*availability.Availability, error)
}

func (f *fakeAvailability) RemainingCapacity(ctx context.Context, resource *domain.Resource, start, end time.Time, excludeBookingID *int64) (*availability.Availability, error) {
	return f.RemainingCapacityFunc(ctx, resource, start, end, excludeBookingID)
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testResource() *domain.Resource {
	return &domain.Resource{
		ID:         1,
		OwnerID:    10,
		Title:      "Pottery Wheel",
		Capacity:   1,
		AccessType: domain.AccessPublic,
		Status:     domain.ResourcePublished,
	}
}

func TestJoin_AssignsTailPosition(t *testing.T) {
	start := testNow.Add(24 * time.Hour)
	end := start.Add(2 * time.Hour)

	var created *domain.WaitlistEntry
	svc := NewService(
		&fakeWaitlistRepo{
			FindByUserAndWindowFunc: func(ctx context.Context, resourceID, userID int64, s, e time.Time) (*domain.WaitlistEntry, error) {
				return nil, waitlistRepo.ErrEntryNotFound
			},
			MaxPositionFunc: func(ctx context.Context, resourceID int64) (int, error) {
				return 4, nil
			},
			CreateFunc: func(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
				entry.ID = 17
				entry.CreatedAt = testNow
				created = entry
				return entry, nil
			},
		},
		&fakeBookingRepo{},
		&fakeResourceRepo{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			},
		},
		&fakeApprovalRepo{},
		&fakeAvailability{},
		passthroughTxManager{},
		fixedTime{now: testNow},
		nopLogger{},
	)

	entry, err := svc.Join(context.Background(), 1, 55, start, end, nil)
	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotNil(t, entry.Position)
	assert.Equal(t, 5, *entry.Position)
	assert.Equal(t, domain.WaitlistWaiting, entry.Status)
}

func TestJoin_RejectsDuplicateWaitingEntry(t *testing.T) {
	start := testNow.Add(24 * time.Hour)
	end := start.Add(time.Hour)

	pos := 2
	svc := NewService(
		&fakeWaitlistRepo{
			FindByUserAndWindowFunc: func(ctx context.Context, resourceID, userID int64, s, e time.Time) (*domain.WaitlistEntry, error) {
				return &domain.WaitlistEntry{ID: 3, Position: &pos, Status: domain.WaitlistWaiting}, nil
			},
		},
		&fakeBookingRepo{},
		&fakeResourceRepo{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			},
		},
		&fakeApprovalRepo{},
		&fakeAvailability{},
		passthroughTxManager{},
		fixedTime{now: testNow},
		nopLogger{},
	)

	_, err := svc.Join(context.Background(), 1, 55, start, end, nil)
	assert.ErrorIs(t, err, ErrAlreadyWaiting)
}

func TestJoin_RequeuesConvertedEntry(t *testing.T) {
	start := testNow.Add(24 * time.Hour)
	end := start.Add(time.Hour)

	oldPos := 1
	requeued := false
	svc := NewService(
		&fakeWaitlistRepo{
			FindByUserAndWindowFunc: func(ctx context.Context, resourceID, userID int64, s, e time.Time) (*domain.WaitlistEntry, error) {
				return &domain.WaitlistEntry{ID: 3, Position: &oldPos, Status: domain.WaitlistConverted, Notified: true}, nil
			},
			MaxPositionFunc: func(ctx context.Context, resourceID int64) (int, error) {
				return 6, nil
			},
			RequeueFunc: func(ctx context.Context, id int64, position int, createdAt time.Time) error {
				requeued = true
				assert.Equal(t, int64(3), id)
				assert.Equal(t, 7, position)
				return nil
			},
		},
		&fakeBookingRepo{},
		&fakeResourceRepo{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			},
		},
		&fakeApprovalRepo{},
		&fakeAvailability{},
		passthroughTxManager{},
		fixedTime{now: testNow},
		nopLogger{},
	)

	entry, err := svc.Join(context.Background(), 1, 55, start, end, nil)
	require.NoError(t, err)
	assert.True(t, requeued)
	assert.Equal(t, domain.WaitlistWaiting, entry.Status)
	assert.False(t, entry.Notified)
	assert.Equal(t, 7, *entry.Position)
}

func TestJoin_RejectsPastWindow(t *testing.T) {
	start := testNow.Add(-2 * time.Hour)
	end := start.Add(time.Hour)

	svc := NewService(
		&fakeWaitlistRepo{},
		&fakeBookingRepo{},
		&fakeResourceRepo{},
		&fakeApprovalRepo{},
		&fakeAvailability{},
		passthroughTxManager{},
		fixedTime{now: testNow},
		nopLogger{},
	)

	_, err := svc.Join(context.Background(), 1, 55, start, end, nil)
	assert.ErrorIs(t, err, ErrWindowInPast)
}

func TestPromoteNext_PromotesHeadOfQueue(t *testing.T) {
	start := testNow.Add(24 * time.Hour)
	end := start.Add(time.Hour)

	pos := 1
	converted := false
	svc := NewService(
		&fakeWaitlistRepo{
			NextWaitingFunc: func(ctx context.Context, resourceID int64, s, e time.Time) (*domain.WaitlistEntry, error) {
				return &domain.WaitlistEntry{
					ID:         9,
					ResourceID: resourceID,
					UserID:     77,
					StartTime:  s,
					EndTime:    e,
					Position:   &pos,
					Status:     domain.WaitlistWaiting,
				}, nil
			},
			MarkConvertedFunc: func(ctx context.Context, id int64) error {
				converted = true
				assert.Equal(t, int64(9), id)
				return nil
			},
		},
		&fakeBookingRepo{
			CreateFunc: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
				booking.ID = 101
				return booking, nil
			},
		},
		&fakeResourceRepo{},
		&fakeApprovalRepo{},
		&fakeAvailability{
			RemainingCapacityFunc: func(ctx context.Context, resource *domain.Resource, s, e time.Time, excludeBookingID *int64) (*availability.Availability, error) {
				return &availability.Availability{Resource: resource, Remaining: 1}, nil
			},
		},
		passthroughTxManager{},
		fixedTime{now: testNow},
		nopLogger{},
	)

	promotion, err := svc.PromoteNext(context.Background(), testResource(), start, end)
	require.NoError(t, err)
	require.NotNil(t, promotion)
	assert.True(t, converted)
	assert.Equal(t, int64(101), promotion.Booking.ID)
	assert.Equal(t, int64(77), promotion.Booking.UserID)
	assert.Equal(t, domain.StatusApproved, promotion.Booking.Status)
	require.NotNil(t, promotion.Booking.ApprovedBy)
	assert.Equal(t, int64(10), *promotion.Booking.ApprovedBy)
	require.NotNil(t, promotion.Booking.DecisionAt)
	assert.True(t, promotion.Booking.DecisionAt.Equal(testNow))
	assert.True(t, promotion.Booking.BookedByAdmin)
	assert.Equal(t, "Auto-booked from waitlist for Pottery Wheel", promotion.Booking.Purpose)
	assert.Equal(t, domain.WaitlistConverted, promotion.Entry.Status)
}

func TestPromoteNext_RestrictedResourceAwaitsOwner(t *testing.T) {
	start := testNow.Add(24 * time.Hour)
	end := start.Add(time.Hour)

	restricted := testResource()
	restricted.AccessType = domain.AccessRestricted

	pos := 1
	var request *domain.ApprovalRequest
	svc := NewService(
		&fakeWaitlistRepo{
			NextWaitingFunc: func(ctx context.Context, resourceID int64, s, e time.Time) (*domain.WaitlistEntry, error) {
				return &domain.WaitlistEntry{
					ID:         9,
					ResourceID: resourceID,
					UserID:     77,
					StartTime:  s,
					EndTime:    e,
					Position:   &pos,
					Status:     domain.WaitlistWaiting,
				}, nil
			},
			MarkConvertedFunc: func(ctx context.Context, id int64) error {
				return nil
			},
		},
		&fakeBookingRepo{
			CreateFunc: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
				booking.ID = 101
				return booking, nil
			},
		},
		&fakeResourceRepo{},
		&fakeApprovalRepo{
			CreateFunc: func(ctx context.Context, req *domain.ApprovalRequest) (*domain.ApprovalRequest, error) {
				req.ID = 42
				request = req
				return req, nil
			},
		},
		&fakeAvailability{
			RemainingCapacityFunc: func(ctx context.Context, resource *domain.Resource, s, e time.Time, excludeBookingID *int64) (*availability.Availability, error) {
				return &availability.Availability{Resource: resource, Remaining: 1}, nil
			},
		},
		passthroughTxManager{},
		fixedTime{now: testNow},
		nopLogger{},
	)

	promotion, err := svc.PromoteNext(context.Background(), restricted, start, end)
	require.NoError(t, err)
	require.NotNil(t, promotion)

	// Закрытый ресурс: бронирование ждёт решения владельца
	assert.Equal(t, domain.StatusPending, promotion.Booking.Status)
	assert.Nil(t, promotion.Booking.ApprovedBy)
	assert.Nil(t, promotion.Booking.DecisionAt)
	assert.True(t, promotion.Booking.BookedByAdmin)

	require.NotNil(t, request)
	assert.Equal(t, domain.ApprovalKindOwner, request.Kind)
	assert.Equal(t, domain.ApprovalPending, request.Status)
	assert.Equal(t, int64(77), request.RequesterID)
	require.NotNil(t, request.BookingID)
	assert.Equal(t, int64(101), *request.BookingID)
}

func TestPromoteNext_EmptyQueue(t *testing.T) {
	start := testNow.Add(24 * time.Hour)
	end := start.Add(time.Hour)

	svc := NewService(
		&fakeWaitlistRepo{
			NextWaitingFunc: func(ctx context.Context, resourceID int64, s, e time.Time) (*domain.WaitlistEntry, error) {
				return nil, waitlistRepo.ErrEntryNotFound
			},
		},
		&fakeBookingRepo{},
		&fakeResourceRepo{},
		&fakeApprovalRepo{},
		&fakeAvailability{},
		passthroughTxManager{},
		fixedTime{now: testNow},
		nopLogger{},
	)

	promotion, err := svc.PromoteNext(context.Background(), testResource(), start, end)
	require.NoError(t, err)
	assert.Nil(t, promotion)
}

func TestPromoteNext_WindowStillFull(t *testing.T) {
	start := testNow.Add(24 * time.Hour)
	end := start.Add(time.Hour)

	pos := 1
	svc := NewService(
		&fakeWaitlistRepo{
			NextWaitingFunc: func(ctx context.Context, resourceID int64, s, e time.Time) (*domain.WaitlistEntry, error) {
				return &domain.WaitlistEntry{ID: 9, UserID: 77, StartTime: s, EndTime: e, Position: &pos, Status: domain.WaitlistWaiting}, nil
			},
			MarkConvertedFunc: func(ctx context.Context, id int64) error {
				t.Fatal("entry must stay queued when the window is full")
				return nil
			},
		},
		&fakeBookingRepo{
			CreateFunc: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
				t.Fatal("no booking must be created when the window is full")
				return nil, nil
			},
		},
		&fakeResourceRepo{},
		&fakeApprovalRepo{},
		&fakeAvailability{
			RemainingCapacityFunc: func(ctx context.Context, resource *domain.Resource, s, e time.Time, excludeBookingID *int64) (*availability.Availability, error) {
				return &availability.Availability{Resource: resource, Remaining: 0}, nil
			},
		},
		passthroughTxManager{},
		fixedTime{now: testNow},
		nopLogger{},
	)

	promotion, err := svc.PromoteNext(context.Background(), testResource(), start, end)
	require.NoError(t, err)
	assert.Nil(t, promotion)
}
