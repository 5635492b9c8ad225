package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	approvalRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/approval"
	"github.com/m04kA/CRH-SchedulingService/internal/integrations/identity"
	"github.com/m04kA/CRH-SchedulingService/internal/integrations/notifysink"
	"github.com/m04kA/CRH-SchedulingService/internal/service/availability"
	"github.com/m04kA/CRH-SchedulingService/internal/service/waitlist"
)

type fakeBookingRepo struct {
	GetByIDFunc    func(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUserFunc func(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	ApproveFunc    func(ctx context.Context, id int64, approverID int64, decidedAt time.Time) error
	RejectFunc     func(ctx context.Context, id int64, reason *string, decidedAt time.Time) error
	CancelFunc     func(ctx context.Context, id int64, reason string, decidedAt time.Time) error
	DeleteFunc     func(ctx context.Context, id int64) error
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeBookingRepo) ListByUser(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.ListByUserFunc(ctx, userID, status)
}

func (f *fakeBookingRepo) Approve(ctx context.Context, id int64, approverID int64, decidedAt time.Time) error {
	return f.ApproveFunc(ctx, id, approverID, decidedAt)
}

func (f *fakeBookingRepo) Reject(ctx context.Context, id int64, reason *string, decidedAt time.Time) error {
	return f.RejectFunc(ctx, id, reason, decidedAt)
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id int64, reason string, decidedAt time.Time) error {
	return f.CancelFunc(ctx, id, reason, decidedAt)
}

func (f *fakeBookingRepo) Delete(ctx context.Context, id int64) error {
	return f.DeleteFunc(ctx, id)
}

type fakeResourceRepo struct {
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Resource, error)
}

func (f *fakeResourceRepo) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	return f.GetByIDFunc(ctx, id)
}

type fakeApprovalRepo struct {
	GetByBookingIDFunc func(ctx context.Context, bookingID int64) (*domain.ApprovalRequest, error)
	MarkFunc           func(ctx context.Context, id int64, status domain.ApprovalStatus, note *string, decidedAt time.Time) error
}

func (f *fakeApprovalRepo) GetByBookingID(ctx context.Context, bookingID int64) (*domain.ApprovalRequest, error) {
	return f.GetByBookingIDFunc(ctx, bookingID)
}

func (f *fakeApprovalRepo) Mark(ctx context.Context, id int64, status domain.ApprovalStatus, note *string, decidedAt time.Time) error {
	return f.MarkFunc(ctx, id, status, note, decidedAt)
}

type fakeAvailability struct {
	EnsureCapacityFunc func(ctx context.Context, resource *domain.Resource, start, end time.Time, excludeBookingID *int64) error
}

func (f *fakeAvailability) EnsureCapacity(ctx context.Context, resource *domain.Resource, start, end time.Time, excludeBookingID *int64) error {
	return f.EnsureCapacityFunc(ctx, resource, start, end, excludeBookingID)
}

type fakeWaitlist struct {
	PromoteNextFunc func(ctx context.Context, resource *domain.Resource, freedStart, freedEnd time.Time) (*waitlist.Promotion, error)
}

func (f *fakeWaitlist) PromoteNext(ctx context.Context, resource *domain.Resource, freedStart, freedEnd time.Time) (*waitlist.Promotion, error) {
	return f.PromoteNextFunc(ctx, resource, freedStart, freedEnd)
}

type fakeIdentity struct {
	GetUserFunc func(ctx context.Context, userID int64) (*identity.User, error)
}

func (f *fakeIdentity) GetUser(ctx context.Context, userID int64) (*identity.User, error) {
	return f.GetUserFunc(ctx, userID)
}

type fakeNotifier struct {
	sent []notifysink.Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, n notifysink.Notification) error {
	f.sent = append(f.sent, n)
	return nil
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

const (
	ownerID     = int64(10)
	requesterID = int64(55)
	adminID     = int64(900)
	memberID    = int64(77)
)

func memberIdentity() *fakeIdentity {
	return &fakeIdentity{
		GetUserFunc: func(ctx context.Context, userID int64) (*identity.User, error) {
			role := identity.RoleMember
			if userID == adminID {
				role = identity.RoleAdmin
			}
			return &identity.User{ID: userID, Role: role}, nil
		},
	}
}

func testResource() *domain.Resource {
	return &domain.Resource{
		ID:         1,
		OwnerID:    ownerID,
		Title:      "Rehearsal Room",
		Capacity:   1,
		AccessType: domain.AccessRestricted,
		Status:     domain.ResourcePublished,
	}
}

func pendingBooking() *domain.Booking {
	start := testNow.Add(48 * time.Hour)
	return &domain.Booking{
		ID:         21,
		ResourceID: 1,
		UserID:     requesterID,
		StartTime:  start,
		EndTime:    start.Add(2 * time.Hour),
		Status:     domain.StatusPending,
	}
}

func noApprovalRequest() *fakeApprovalRepo {
	return &fakeApprovalRepo{
		GetByBookingIDFunc: func(ctx context.Context, bookingID int64) (*domain.ApprovalRequest, error) {
			return nil, approvalRepo.ErrRequestNotFound
		},
	}
}

func noPromotion() *fakeWaitlist {
	return &fakeWaitlist{
		PromoteNextFunc: func(ctx context.Context, resource *domain.Resource, s, e time.Time) (*waitlist.Promotion, error) {
			return nil, nil
		},
	}
}

func TestApprove(t *testing.T) {
	t.Run("owner approves pending booking", func(t *testing.T) {
		approved := false
		requestMarked := false
		bID := int64(21)
		req := &domain.ApprovalRequest{ID: 5, BookingID: &bID, Status: domain.ApprovalPending}

		svc := NewService(
			&fakeBookingRepo{
				GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
					return pendingBooking(), nil
				},
				ApproveFunc: func(ctx context.Context, id int64, approverID int64, decidedAt time.Time) error {
					approved = true
					assert.Equal(t, ownerID, approverID)
					return nil
				},
			},
			&fakeResourceRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			}},
			&fakeApprovalRepo{
				GetByBookingIDFunc: func(ctx context.Context, bookingID int64) (*domain.ApprovalRequest, error) {
					return req, nil
				},
				MarkFunc: func(ctx context.Context, id int64, status domain.ApprovalStatus, note *string, decidedAt time.Time) error {
					requestMarked = true
					assert.Equal(t, domain.ApprovalApproved, status)
					return nil
				},
			},
			&fakeAvailability{EnsureCapacityFunc: func(ctx context.Context, resource *domain.Resource, s, e time.Time, excludeBookingID *int64) error {
				require.NotNil(t, excludeBookingID)
				assert.Equal(t, int64(21), *excludeBookingID)
				return nil
			}},
			noPromotion(),
			memberIdentity(),
			&fakeNotifier{},
			passthroughTxManager{},
			fixedTime{now: testNow},
			nopLogger{},
		)

		booking, err := svc.Approve(context.Background(), 21, ownerID)
		require.NoError(t, err)
		assert.True(t, approved)
		assert.True(t, requestMarked)
		assert.Equal(t, domain.StatusApproved, booking.Status)
	})

	t.Run("stranger cannot approve", func(t *testing.T) {
		svc := NewService(
			&fakeBookingRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return pendingBooking(), nil
			}},
			&fakeResourceRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			}},
			noApprovalRequest(),
			&fakeAvailability{},
			noPromotion(),
			memberIdentity(),
			&fakeNotifier{},
			passthroughTxManager{},
			fixedTime{now: testNow},
			nopLogger{},
		)

		_, err := svc.Approve(context.Background(), 21, memberID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("full window blocks approval", func(t *testing.T) {
		svc := NewService(
			&fakeBookingRepo{
				GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
					return pendingBooking(), nil
				},
				ApproveFunc: func(ctx context.Context, id int64, approverID int64, decidedAt time.Time) error {
					t.Fatal("booking must not be approved when capacity is exhausted")
					return nil
				},
			},
			&fakeResourceRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			}},
			noApprovalRequest(),
			&fakeAvailability{EnsureCapacityFunc: func(ctx context.Context, resource *domain.Resource, s, e time.Time, excludeBookingID *int64) error {
				return availability.ErrCapacityExceeded
			}},
			noPromotion(),
			memberIdentity(),
			&fakeNotifier{},
			passthroughTxManager{},
			fixedTime{now: testNow},
			nopLogger{},
		)

		_, err := svc.Approve(context.Background(), 21, ownerID)
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("already decided booking", func(t *testing.T) {
		svc := NewService(
			&fakeBookingRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				b := pendingBooking()
				b.Status = domain.StatusApproved
				return b, nil
			}},
			&fakeResourceRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			}},
			noApprovalRequest(),
			&fakeAvailability{},
			noPromotion(),
			memberIdentity(),
			&fakeNotifier{},
			passthroughTxManager{},
			fixedTime{now: testNow},
			nopLogger{},
		)

		_, err := svc.Approve(context.Background(), 21, ownerID)
		assert.ErrorIs(t, err, ErrNotPending)
	})
}

func TestReject_PromotesWaitlistInSameTransaction(t *testing.T) {
	rejected := false
	notifier := &fakeNotifier{}
	booking := pendingBooking()

	promotedBooking := &domain.Booking{ID: 30, UserID: memberID, Status: domain.StatusApproved}
	svc := NewService(
		&fakeBookingRepo{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return booking, nil
			},
			RejectFunc: func(ctx context.Context, id int64, reason *string, decidedAt time.Time) error {
				rejected = true
				return nil
			},
		},
		&fakeResourceRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
			return testResource(), nil
		}},
		noApprovalRequest(),
		&fakeAvailability{},
		&fakeWaitlist{
			PromoteNextFunc: func(ctx context.Context, resource *domain.Resource, s, e time.Time) (*waitlist.Promotion, error) {
				// Освобождённое окно совпадает с окном отклонённой брони
				assert.True(t, s.Equal(booking.StartTime))
				assert.True(t, e.Equal(booking.EndTime))
				return &waitlist.Promotion{
					Entry:   &domain.WaitlistEntry{ID: 3, UserID: memberID, Status: domain.WaitlistConverted},
					Booking: promotedBooking,
				}, nil
			},
		},
		memberIdentity(),
		notifier,
		passthroughTxManager{},
		fixedTime{now: testNow},
		nopLogger{},
	)

	reason := "window needed for maintenance crew"
	result, err := svc.Reject(context.Background(), 21, ownerID, &reason)
	require.NoError(t, err)
	assert.True(t, rejected)
	assert.Equal(t, domain.StatusRejected, result.Status)

	// Два уведомления: отклонённому заявителю и продвинутому из листа
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, requesterID, notifier.sent[0].UserID)
	assert.Equal(t, notifysink.KindBookingRejected, notifier.sent[0].Kind)
	assert.Equal(t, memberID, notifier.sent[1].UserID)
	assert.Equal(t, notifysink.KindWaitlistPromoted, notifier.sent[1].Kind)
	assert.NotContains(t, notifier.sent[1].Message, "Владелец рассмотрит")
}

func TestCancel_PendingPromotionMentionsOwnerReview(t *testing.T) {
	notifier := &fakeNotifier{}
	booking := pendingBooking()
	booking.Status = domain.StatusApproved

	// Продвижение на закрытый ресурс: бронирование создано ожидающим
	promotedBooking := &domain.Booking{ID: 30, UserID: memberID, Status: domain.StatusPending}
	svc := NewService(
		&fakeBookingRepo{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return booking, nil
			},
			CancelFunc: func(ctx context.Context, id int64, reason string, decidedAt time.Time) error {
				return nil
			},
		},
		&fakeResourceRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
			return testResource(), nil
		}},
		noApprovalRequest(),
		&fakeAvailability{},
		&fakeWaitlist{
			PromoteNextFunc: func(ctx context.Context, resource *domain.Resource, s, e time.Time) (*waitlist.Promotion, error) {
				return &waitlist.Promotion{
					Entry:   &domain.WaitlistEntry{ID: 3, UserID: memberID, Status: domain.WaitlistConverted},
					Booking: promotedBooking,
				}, nil
			},
		},
		memberIdentity(),
		notifier,
		passthroughTxManager{},
		fixedTime{now: testNow},
		nopLogger{},
	)

	_, err := svc.Cancel(context.Background(), 21, requesterID, "plans changed")
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, memberID, notifier.sent[0].UserID)
	assert.Equal(t, notifysink.KindWaitlistPromoted, notifier.sent[0].Kind)
	assert.Contains(t, notifier.sent[0].Message, "Владелец рассмотрит её в ближайшее время.")
}

func TestCancel(t *testing.T) {
	t.Run("requester cancels own booking and waitlist is offered the window", func(t *testing.T) {
		cancelled := false
		promoted := false
		booking := pendingBooking()
		booking.Status = domain.StatusApproved

		svc := NewService(
			&fakeBookingRepo{
				GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
					return booking, nil
				},
				CancelFunc: func(ctx context.Context, id int64, reason string, decidedAt time.Time) error {
					cancelled = true
					assert.Equal(t, "plans changed", reason)
					return nil
				},
			},
			&fakeResourceRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			}},
			noApprovalRequest(),
			&fakeAvailability{},
			&fakeWaitlist{
				PromoteNextFunc: func(ctx context.Context, resource *domain.Resource, s, e time.Time) (*waitlist.Promotion, error) {
					promoted = true
					return nil, nil
				},
			},
			memberIdentity(),
			&fakeNotifier{},
			passthroughTxManager{},
			fixedTime{now: testNow},
			nopLogger{},
		)

		result, err := svc.Cancel(context.Background(), 21, requesterID, "plans changed")
		require.NoError(t, err)
		assert.True(t, cancelled)
		assert.True(t, promoted)
		assert.Equal(t, domain.StatusCancelled, result.Status)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		svc := NewService(
			&fakeBookingRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return pendingBooking(), nil
			}},
			&fakeResourceRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			}},
			noApprovalRequest(),
			&fakeAvailability{},
			noPromotion(),
			memberIdentity(),
			&fakeNotifier{},
			passthroughTxManager{},
			fixedTime{now: testNow},
			nopLogger{},
		)

		_, err := svc.Cancel(context.Background(), 21, memberID, "")
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("admin cancels on behalf of requester", func(t *testing.T) {
		cancelled := false
		svc := NewService(
			&fakeBookingRepo{
				GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
					return pendingBooking(), nil
				},
				CancelFunc: func(ctx context.Context, id int64, reason string, decidedAt time.Time) error {
					cancelled = true
					return nil
				},
			},
			&fakeResourceRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			}},
			noApprovalRequest(),
			&fakeAvailability{},
			noPromotion(),
			memberIdentity(),
			&fakeNotifier{},
			passthroughTxManager{},
			fixedTime{now: testNow},
			nopLogger{},
		)

		_, err := svc.Cancel(context.Background(), 21, adminID, "double booked")
		require.NoError(t, err)
		assert.True(t, cancelled)
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		svc := NewService(
			&fakeBookingRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				b := pendingBooking()
				b.Status = domain.StatusCompleted
				return b, nil
			}},
			&fakeResourceRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			}},
			noApprovalRequest(),
			&fakeAvailability{},
			noPromotion(),
			memberIdentity(),
			&fakeNotifier{},
			passthroughTxManager{},
			fixedTime{now: testNow},
			nopLogger{},
		)

		_, err := svc.Cancel(context.Background(), 21, requesterID, "")
		assert.ErrorIs(t, err, ErrCannotCancel)
	})
}

func TestDelete(t *testing.T) {
	t.Run("admin delete frees the window", func(t *testing.T) {
		deleted := false
		promoted := false
		svc := NewService(
			&fakeBookingRepo{
				GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
					b := pendingBooking()
					b.Status = domain.StatusApproved
					return b, nil
				},
				DeleteFunc: func(ctx context.Context, id int64) error {
					deleted = true
					return nil
				},
			},
			&fakeResourceRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			}},
			noApprovalRequest(),
			&fakeAvailability{},
			&fakeWaitlist{
				PromoteNextFunc: func(ctx context.Context, resource *domain.Resource, s, e time.Time) (*waitlist.Promotion, error) {
					promoted = true
					return nil, nil
				},
			},
			memberIdentity(),
			&fakeNotifier{},
			passthroughTxManager{},
			fixedTime{now: testNow},
			nopLogger{},
		)

		err := svc.Delete(context.Background(), 21, adminID)
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.True(t, promoted)
	})

	t.Run("non-admin cannot delete", func(t *testing.T) {
		svc := NewService(
			&fakeBookingRepo{},
			&fakeResourceRepo{},
			noApprovalRequest(),
			&fakeAvailability{},
			noPromotion(),
			memberIdentity(),
			&fakeNotifier{},
			passthroughTxManager{},
			fixedTime{now: testNow},
			nopLogger{},
		)

		err := svc.Delete(context.Background(), 21, requesterID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("deleting an inactive booking skips promotion", func(t *testing.T) {
		svc := NewService(
			&fakeBookingRepo{
				GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
					b := pendingBooking()
					b.Status = domain.StatusCancelled
					return b, nil
				},
				DeleteFunc: func(ctx context.Context, id int64) error {
					return nil
				},
			},
			&fakeResourceRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			}},
			noApprovalRequest(),
			&fakeAvailability{},
			&fakeWaitlist{
				PromoteNextFunc: func(ctx context.Context, resource *domain.Resource, s, e time.Time) (*waitlist.Promotion, error) {
					t.Fatal("inactive booking frees no capacity")
					return nil, nil
				},
			},
			memberIdentity(),
			&fakeNotifier{},
			passthroughTxManager{},
			fixedTime{now: testNow},
			nopLogger{},
		)

		err := svc.Delete(context.Background(), 21, adminID)
		require.NoError(t, err)
	})
}

func TestGetByID_Access(t *testing.T) {
	svc := func() *Service {
		return NewService(
			&fakeBookingRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return pendingBooking(), nil
			}},
			&fakeResourceRepo{GetByIDFunc: func(ctx context.Context, id int64) (*domain.Resource, error) {
				return testResource(), nil
			}},
			noApprovalRequest(),
			&fakeAvailability{},
			noPromotion(),
			memberIdentity(),
			&fakeNotifier{},
			passthroughTxManager{},
			fixedTime{now: testNow},
			nopLogger{},
		)
	}

	testCases := []struct {
		name    string
		actorID int64
		wantErr error
	}{
		{name: "requester sees own booking", actorID: requesterID},
		{name: "owner sees booking on own resource", actorID: ownerID},
		{name: "admin sees any booking", actorID: adminID},
		{name: "stranger is denied", actorID: memberID, wantErr: ErrAccessDenied},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc().GetByID(context.Background(), 21, tc.actorID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
