package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	approvalRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/approval"
	bookingRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/resource"
	"github.com/m04kA/CRH-SchedulingService/internal/integrations/notifysink"
)

// UseCase use case административного переноса бронирования
//
// Перенос сохраняет длительность окна: конец вычисляется из прежней
// длительности, структурная валидация не повторяется. Ожидающая бронь,
// попавшая на публичный ресурс, подтверждается автоматически
type UseCase struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	downtimeRepo DowntimeRepository
	approvalRepo ApprovalRepository
	identity     IdentityClient
	notifier     NotifyClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	downtimeRepo DowntimeRepository,
	approvalRepo ApprovalRepository,
	identityClient IdentityClient,
	notifier NotifyClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		downtimeRepo: downtimeRepo,
		approvalRepo: approvalRepo,
		identity:     identityClient,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case переноса бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: actor=%d, booking=%d, newStart=%s",
		req.ActorID, req.BookingID, req.NewStart.Format(time.RFC3339))

	// 1. Валидация входных данных
	if req.ActorID <= 0 || req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: actorID and bookingID must be positive", ErrInvalidInput)
	}
	if req.NewStart.IsZero() {
		return nil, fmt.Errorf("%w: newStart is required", ErrInvalidInput)
	}

	// 2. Перенос доступен только администратору
	user, err := uc.identity.GetUser(ctx, req.ActorID)
	if err != nil {
		uc.logger.Error("RescheduleBooking: identity lookup failed for user=%d: %v", req.ActorID, err)
		return nil, fmt.Errorf("%w: identity lookup: %v", ErrInternal, err)
	}
	if !user.IsAdmin() {
		uc.logger.Warn("RescheduleBooking: access denied for user=%d", req.ActorID)
		return nil, ErrAccessDenied
	}

	// 3. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	if !booking.IsActive() {
		uc.logger.Warn("RescheduleBooking: booking id=%d is %s", req.BookingID, booking.Status)
		return nil, ErrBookingInactive
	}

	// 4. Целевой ресурс: прежний или указанный явно
	targetResourceID := booking.ResourceID
	if req.NewResourceID != nil {
		targetResourceID = *req.NewResourceID
	}

	resource, err := uc.resourceRepo.GetByID(ctx, targetResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("RescheduleBooking: resource id=%d not found", targetResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get resource id=%d: %v", targetResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if !resource.IsPublished() {
		return nil, ErrResourceNotBookable
	}

	// 5. Конец окна из прежней длительности
	newStart := req.NewStart.UTC()
	newEnd := newStart.Add(booking.Duration())

	now := uc.timeProvider.Now().UTC()
	autoApproved := false

	// 6. Проверка и перенос в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Обслуживание целевого окна — абсолютный запрет
		blocks, err := uc.downtimeRepo.ListOverlapping(txCtx, resource.ID, newStart, newEnd)
		if err != nil {
			uc.logger.Error("RescheduleBooking: downtime lookup failed: %v", err)
			return fmt.Errorf("%w: downtime lookup: %v", ErrInternal, err)
		}
		if len(blocks) > 0 {
			uc.logger.Warn("RescheduleBooking: target window under downtime for resource=%d", resource.ID)
			return ErrDowntimeConflict
		}

		// 6.2. Любая активная бронь в целевом окне — жёсткий конфликт
		// независимо от вместимости; сама бронь исключается из выборки
		overlapping, err := uc.bookingRepo.ListActiveOverlapping(txCtx, resource.ID, newStart, newEnd, &booking.ID)
		if err != nil {
			uc.logger.Error("RescheduleBooking: overlap lookup failed: %v", err)
			return fmt.Errorf("%w: overlap lookup: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			conflict := overlapping[0]
			uc.logger.Warn("RescheduleBooking: target window conflicts with booking=%d", conflict.ID)
			return &WindowConflictError{
				ConflictingBookingID: conflict.ID,
				Start:                conflict.StartTime,
				End:                  conflict.EndTime,
			}
		}

		// 6.3. Переносим
		if err := uc.bookingRepo.Reschedule(txCtx, booking.ID, resource.ID, newStart, newEnd); err != nil {
			uc.logger.Error("RescheduleBooking: failed to reschedule booking=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to reschedule: %v", ErrInternal, err)
		}

		// 6.4. Ожидающая бронь на публичном ресурсе подтверждается сразу
		if booking.IsPending() && resource.AccessType == domain.AccessPublic {
			if err := uc.bookingRepo.Approve(txCtx, booking.ID, req.ActorID, now); err != nil {
				uc.logger.Error("RescheduleBooking: auto-approve failed for booking=%d: %v", booking.ID, err)
				return fmt.Errorf("%w: auto-approve: %v", ErrInternal, err)
			}
			autoApproved = true
			return uc.closeOwnerRequest(txCtx, booking.ID, now)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.ResourceID = resource.ID
	booking.StartTime = newStart
	booking.EndTime = newEnd
	if autoApproved {
		booking.Status = domain.StatusApproved
	}

	// 7. Уведомляем владельца брони после коммита
	uc.notifyMoved(ctx, booking, resource)

	uc.logger.Info("RescheduleBooking: booking=%d moved to resource=%d window=%s - %s",
		booking.ID, resource.ID, newStart.Format(time.RFC3339), newEnd.Format(time.RFC3339))

	return &Response{
		ID:         booking.ID,
		ResourceID: booking.ResourceID,
		UserID:     booking.UserID,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		Status:     string(booking.Status),
		UpdatedAt:  now,
	}, nil
}

// closeOwnerRequest закрывает заявку владельцу после авто-подтверждения
// Отсутствие заявки не ошибка
func (uc *UseCase) closeOwnerRequest(ctx context.Context, bookingID int64, decidedAt time.Time) error {
	req, err := uc.approvalRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, approvalRepo.ErrRequestNotFound) {
			return nil
		}
		return fmt.Errorf("%w: approval request lookup: %v", ErrInternal, err)
	}
	if !req.IsPending() {
		return nil
	}
	if err := uc.approvalRepo.Mark(ctx, req.ID, domain.ApprovalApproved, nil, decidedAt); err != nil {
		return fmt.Errorf("%w: approval request update: %v", ErrInternal, err)
	}
	return nil
}

func (uc *UseCase) notifyMoved(ctx context.Context, booking *domain.Booking, resource *domain.Resource) {
	err := uc.notifier.Notify(ctx, notifysink.Notification{
		UserID: booking.UserID,
		Title:  "Бронирование перенесено",
		Message: fmt.Sprintf("Бронирование №%d перенесено: ресурс «%s», %s - %s",
			booking.ID, resource.Title,
			booking.StartTime.Format(time.RFC3339), booking.EndTime.Format(time.RFC3339)),
		Kind:        notifysink.KindBookingMoved,
		RelatedLink: fmt.Sprintf("/bookings/%d", booking.ID),
	})
	if err != nil {
		uc.logger.Warn("RescheduleBooking: notification delivery failed for user=%d: %v", booking.UserID, err)
	}
}
