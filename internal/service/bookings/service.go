package bookings

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
	"github.com/m04kA/CRH-SchedulingService/internal/service/availability"
	"github.com/m04kA/CRH-SchedulingService/internal/service/waitlist"
)

// Service сервис жизненного цикла бронирований: просмотр, решения
// владельца (подтверждение, отклонение), отмена и удаление
//
// Каждая операция, освобождающая место в окне, в той же транзакции
// продвигает лист ожидания — откат операции откатывает и продвижение
type Service struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	approvalRepo ApprovalRepository
	availability AvailabilityService
	waitlist     WaitlistService
	identity     IdentityClient
	notifier     NotifyClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	approvalRepo ApprovalRepository,
	availability AvailabilityService,
	waitlistSvc WaitlistService,
	identityClient IdentityClient,
	notifier NotifyClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		approvalRepo: approvalRepo,
		availability: availability,
		waitlist:     waitlistSvc,
		identity:     identityClient,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Доступ: заявитель, владелец ресурса или администратор
func (s *Service) GetByID(ctx context.Context, id int64, actorID int64) (*domain.Booking, error) {
	booking, resource, err := s.loadBookingWithResource(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != actorID && !resource.IsOwnedBy(actorID) {
		isAdmin, err := s.isAdmin(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			s.logger.Warn("GetByID: access denied for user=%d to booking=%d", actorID, id)
			return nil, ErrAccessDenied
		}
	}

	return booking, nil
}

// ListByUser получает бронирования пользователя, опционально по статусу
func (s *Service) ListByUser(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	bookings, err := s.bookingRepo.ListByUser(ctx, userID, status)
	if err != nil {
		s.logger.Error("ListByUser: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListByUser - repository error: %v", ErrInternal, err)
	}
	return bookings, nil
}

// Approve подтверждает ожидающее бронирование
// Доступ: владелец ресурса или администратор. Вместимость окна
// перепроверяется в сериализуемой транзакции: между созданием заявки
// и решением владельца место могли занять другие подтверждения
func (s *Service) Approve(ctx context.Context, id int64, actorID int64) (*domain.Booking, error) {
	s.logger.Info("Approve: user=%d approving booking=%d", actorID, id)

	booking, resource, err := s.loadBookingWithResource(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkDecisionAccess(ctx, resource, actorID); err != nil {
		return nil, err
	}
	if !booking.IsPending() {
		s.logger.Warn("Approve: booking=%d is %s, not pending", id, booking.Status)
		return nil, ErrNotPending
	}

	now := s.timeProvider.Now().UTC()
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Собственная бронь исключается из подсчёта: она уже занимает место
		if err := s.availability.EnsureCapacity(txCtx, resource, booking.StartTime, booking.EndTime, &booking.ID); err != nil {
			return s.mapCapacityError(err)
		}

		if err := s.bookingRepo.Approve(txCtx, id, actorID, now); err != nil {
			return fmt.Errorf("%w: Approve - update booking: %v", ErrInternal, err)
		}

		return s.closeApprovalRequest(txCtx, id, domain.ApprovalApproved, nil, now)
	})
	if err != nil {
		return nil, err
	}

	booking.Status = domain.StatusApproved
	booking.ApprovedBy = &actorID
	booking.DecisionAt = &now

	s.notify(ctx, booking.UserID, "Бронирование подтверждено",
		fmt.Sprintf("Ваше бронирование №%d подтверждено", booking.ID),
		notifysink.KindBookingApproved, booking.ID)

	s.logger.Info("Approve: booking=%d approved by user=%d", id, actorID)
	return booking, nil
}

// Reject отклоняет ожидающее бронирование
// Отклонение освобождает место в окне, поэтому в той же транзакции
// продвигается лист ожидания
func (s *Service) Reject(ctx context.Context, id int64, actorID int64, reason *string) (*domain.Booking, error) {
	s.logger.Info("Reject: user=%d rejecting booking=%d", actorID, id)

	booking, resource, err := s.loadBookingWithResource(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkDecisionAccess(ctx, resource, actorID); err != nil {
		return nil, err
	}
	if !booking.IsPending() {
		s.logger.Warn("Reject: booking=%d is %s, not pending", id, booking.Status)
		return nil, ErrNotPending
	}

	now := s.timeProvider.Now().UTC()
	var promotion *waitlist.Promotion
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Reject(txCtx, id, reason, now); err != nil {
			return fmt.Errorf("%w: Reject - update booking: %v", ErrInternal, err)
		}

		if err := s.closeApprovalRequest(txCtx, id, domain.ApprovalDenied, reason, now); err != nil {
			return err
		}

		promotion, err = s.waitlist.PromoteNext(txCtx, resource, booking.StartTime, booking.EndTime)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = domain.StatusRejected
	booking.RejectionReason = reason
	booking.DecisionAt = &now

	s.notify(ctx, booking.UserID, "Бронирование отклонено",
		fmt.Sprintf("Ваше бронирование №%d отклонено", booking.ID),
		notifysink.KindBookingRejected, booking.ID)
	s.notifyPromotion(ctx, promotion)

	s.logger.Info("Reject: booking=%d rejected by user=%d", id, actorID)
	return booking, nil
}

// Cancel отменяет активное бронирование
// Доступ: заявитель или администратор. Освободившееся окно в той же
// транзакции предлагается листу ожидания
func (s *Service) Cancel(ctx context.Context, id int64, actorID int64, reason string) (*domain.Booking, error) {
	s.logger.Info("Cancel: user=%d cancelling booking=%d", actorID, id)

	booking, resource, err := s.loadBookingWithResource(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != actorID {
		isAdmin, err := s.isAdmin(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			s.logger.Warn("Cancel: access denied for user=%d to booking=%d", actorID, id)
			return nil, ErrAccessDenied
		}
	}
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking=%d is %s and cannot be cancelled", id, booking.Status)
		return nil, ErrCannotCancel
	}

	now := s.timeProvider.Now().UTC()
	var promotion *waitlist.Promotion
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Cancel(txCtx, id, reason, now); err != nil {
			return fmt.Errorf("%w: Cancel - update booking: %v", ErrInternal, err)
		}

		if err := s.closeApprovalRequest(txCtx, id, domain.ApprovalClosed, nil, now); err != nil {
			return err
		}

		promotion, err = s.waitlist.PromoteNext(txCtx, resource, booking.StartTime, booking.EndTime)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = domain.StatusCancelled
	booking.DecisionAt = &now

	s.notifyPromotion(ctx, promotion)

	s.logger.Info("Cancel: booking=%d cancelled by user=%d", id, actorID)
	return booking, nil
}

// Delete удаляет бронирование без следа в истории
// Доступ: только администратор. Активное бронирование освобождает окно,
// поэтому лист ожидания продвигается в той же транзакции
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	s.logger.Info("Delete: user=%d deleting booking=%d", actorID, id)

	isAdmin, err := s.isAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !isAdmin {
		s.logger.Warn("Delete: access denied for user=%d", actorID)
		return ErrAccessDenied
	}

	booking, resource, err := s.loadBookingWithResource(ctx, id)
	if err != nil {
		return err
	}

	wasActive := booking.IsActive()
	var promotion *waitlist.Promotion
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Delete - delete booking: %v", ErrInternal, err)
		}

		if wasActive {
			promotion, err = s.waitlist.PromoteNext(txCtx, resource, booking.StartTime, booking.EndTime)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(ctx, booking.UserID, "Бронирование удалено",
		fmt.Sprintf("Ваше бронирование №%d удалено администратором", booking.ID),
		notifysink.KindBookingCancelled, booking.ID)
	s.notifyPromotion(ctx, promotion)

	s.logger.Info("Delete: booking=%d deleted by user=%d", id, actorID)
	return nil
}

func (s *Service) loadBookingWithResource(ctx context.Context, id int64) (*domain.Booking, *domain.Resource, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		s.logger.Error("loadBookingWithResource: booking lookup failed for id=%d: %v", id, err)
		return nil, nil, fmt.Errorf("%w: booking lookup: %v", ErrInternal, err)
	}

	resource, err := s.resourceRepo.GetByID(ctx, booking.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, nil, ErrResourceNotFound
		}
		s.logger.Error("loadBookingWithResource: resource lookup failed for id=%d: %v", booking.ResourceID, err)
		return nil, nil, fmt.Errorf("%w: resource lookup: %v", ErrInternal, err)
	}

	return booking, resource, nil
}

func (s *Service) checkDecisionAccess(ctx context.Context, resource *domain.Resource, actorID int64) error {
	if resource.IsOwnedBy(actorID) {
		return nil
	}
	isAdmin, err := s.isAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !isAdmin {
		s.logger.Warn("checkDecisionAccess: user=%d is neither owner of resource=%d nor admin", actorID, resource.ID)
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) isAdmin(ctx context.Context, userID int64) (bool, error) {
	user, err := s.identity.GetUser(ctx, userID)
	if err != nil {
		s.logger.Error("isAdmin: identity lookup failed for user=%d: %v", userID, err)
		return false, fmt.Errorf("%w: identity lookup: %v", ErrInternal, err)
	}
	return user.IsAdmin(), nil
}

// closeApprovalRequest закрывает заявку, привязанную к бронированию
// Отсутствие заявки не ошибка: авто-подтверждённые брони её не имеют
func (s *Service) closeApprovalRequest(ctx context.Context, bookingID int64, status domain.ApprovalStatus, note *string, decidedAt time.Time) error {
	req, err := s.approvalRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, approvalRepo.ErrRequestNotFound) {
			return nil
		}
		return fmt.Errorf("%w: approval request lookup: %v", ErrInternal, err)
	}
	if !req.IsPending() {
		return nil
	}
	if err := s.approvalRepo.Mark(ctx, req.ID, status, note, decidedAt); err != nil {
		return fmt.Errorf("%w: approval request update: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) mapCapacityError(err error) error {
	switch {
	case errors.Is(err, availability.ErrCapacityExceeded):
		return ErrCapacityExceeded
	case errors.Is(err, availability.ErrResourceUnderDowntime):
		return ErrResourceUnderDowntime
	default:
		return err
	}
}

// notify отправляет уведомление и логирует сбой: доставка
// негарантированная, бизнес-операция к этому моменту уже закоммичена
func (s *Service) notify(ctx context.Context, userID int64, title, message string, kind notifysink.NotificationKind, bookingID int64) {
	err := s.notifier.Notify(ctx, notifysink.Notification{
		UserID:      userID,
		Title:       title,
		Message:     message,
		Kind:        kind,
		RelatedLink: fmt.Sprintf("/bookings/%d", bookingID),
	})
	if err != nil {
		s.logger.Warn("notify: delivery failed for user=%d booking=%d: %v", userID, bookingID, err)
	}
}

func (s *Service) notifyPromotion(ctx context.Context, promotion *waitlist.Promotion) {
	if promotion == nil {
		return
	}
	message := fmt.Sprintf("Ваша запись в листе ожидания конвертирована в бронирование №%d", promotion.Booking.ID)
	if promotion.Booking.IsPending() {
		message += " Владелец рассмотрит её в ближайшее время."
	}
	s.notify(ctx, promotion.Entry.UserID, "Место освободилось",
		message, notifysink.KindWaitlistPromoted, promotion.Booking.ID)
}
