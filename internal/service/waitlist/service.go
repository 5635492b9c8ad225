package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	resourceRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/resource"
	waitlistRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/waitlist"
)

// Promotion результат продвижения записи листа ожидания:
// запись конвертирована, на её окно создано бронирование — подтверждённое
// либо ожидающее решения владельца, по той же политике, что и прямое
// бронирование. Уведомление отправляется вызывающей стороной после
// коммита транзакции
type Promotion struct {
	Entry   *domain.WaitlistEntry
	Booking *domain.Booking
}

// Service сервис листа ожидания
//
// Лист хранит заявки на точное временное окно: продвижение срабатывает
// только при полном совпадении (start, end) освободившегося окна —
// частичные пересечения кандидатами не считаются
type Service struct {
	waitlistRepo WaitlistRepository
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	approvalRepo ApprovalRepository
	availability AvailabilityService
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса листа ожидания
func NewService(
	waitlistRepo WaitlistRepository,
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	approvalRepo ApprovalRepository,
	availability AvailabilityService,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		waitlistRepo: waitlistRepo,
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		approvalRepo: approvalRepo,
		availability: availability,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Join ставит пользователя в лист ожидания на точное окно
// Позиция = max(position) + 1 вычисляется в той же транзакции, что
// и вставка. Конвертированная ранее запись переиспользуется: возвращается
// в состояние ожидания с хвостовой позицией вместо создания новой строки
func (s *Service) Join(ctx context.Context, resourceID, userID int64, start, end time.Time, purpose *string) (*domain.WaitlistEntry, error) {
	s.logger.Info("Join: user=%d joining waitlist for resource=%d window=%s - %s",
		userID, resourceID, start.Format(time.RFC3339), end.Format(time.RFC3339))

	if err := domain.ValidateTimeBlock(start, end); err != nil {
		s.logger.Warn("Join: invalid time block for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeBlock, err)
	}

	start = start.UTC()
	end = end.UTC()

	if !start.After(s.timeProvider.Now().UTC()) {
		s.logger.Warn("Join: window in the past for user=%d resource=%d", userID, resourceID)
		return nil, ErrWindowInPast
	}

	resource, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("Join: resource lookup failed for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: Join - resource lookup: %v", ErrInternal, err)
	}
	if !resource.IsPublished() {
		return nil, ErrResourceNotBookable
	}

	var entry *domain.WaitlistEntry
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.waitlistRepo.FindByUserAndWindow(txCtx, resourceID, userID, start, end)
		if err != nil && !errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			return fmt.Errorf("%w: Join - entry lookup: %v", ErrInternal, err)
		}

		if existing != nil && existing.IsWaiting() {
			return ErrAlreadyWaiting
		}

		maxPos, err := s.waitlistRepo.MaxPosition(txCtx, resourceID)
		if err != nil {
			return fmt.Errorf("%w: Join - max position: %v", ErrInternal, err)
		}
		position := maxPos + 1
		now := s.timeProvider.Now().UTC()

		if existing != nil {
			if err := s.waitlistRepo.Requeue(txCtx, existing.ID, position, now); err != nil {
				return fmt.Errorf("%w: Join - requeue entry: %v", ErrInternal, err)
			}
			existing.Position = &position
			existing.Status = domain.WaitlistWaiting
			existing.Notified = false
			existing.CreatedAt = now
			entry = existing
			return nil
		}

		created, err := s.waitlistRepo.Create(txCtx, &domain.WaitlistEntry{
			ResourceID: resourceID,
			UserID:     userID,
			StartTime:  start,
			EndTime:    end,
			Purpose:    purpose,
			Position:   &position,
			Status:     domain.WaitlistWaiting,
		})
		if err != nil {
			return fmt.Errorf("%w: Join - create entry: %v", ErrInternal, err)
		}
		entry = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Join: user=%d queued at position=%d for resource=%d", userID, *entry.Position, resourceID)
	return entry, nil
}

// PromoteNext продвигает следующего кандидата на освободившееся окно
// Вызывается внутри транзакции операции, освободившей место (отмена,
// отклонение, удаление, перенос) — откат операции откатывает и продвижение
//
// Возвращает nil без ошибки, если кандидатов нет или вместимость
// окна к моменту проверки снова исчерпана
func (s *Service) PromoteNext(ctx context.Context, resource *domain.Resource, freedStart, freedEnd time.Time) (*Promotion, error) {
	freedStart = freedStart.UTC()
	freedEnd = freedEnd.UTC()

	entry, err := s.waitlistRepo.NextWaiting(ctx, resource.ID, freedStart, freedEnd)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			return nil, nil
		}
		s.logger.Error("PromoteNext: candidate lookup failed for resource=%d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: PromoteNext - candidate lookup: %v", ErrInternal, err)
	}

	// Освобождение окна не гарантирует место: параллельное бронирование
	// могло занять его первым
	avail, err := s.availability.RemainingCapacity(ctx, resource, freedStart, freedEnd, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: PromoteNext - capacity check: %v", ErrInternal, err)
	}
	if !avail.Available() {
		s.logger.Info("PromoteNext: window still full for resource=%d, entry=%d stays queued", resource.ID, entry.ID)
		return nil, nil
	}

	now := s.timeProvider.Now().UTC()
	purpose := fmt.Sprintf("Auto-booked from waitlist for %s", resource.Title)
	if entry.Purpose != nil {
		purpose = *entry.Purpose
	}

	// Политика подтверждения та же, что при прямом бронировании:
	// публичный ресурс и владелец в очереди проходят без рассмотрения
	autoApprove := resource.AutoApproves(entry.UserID)
	status := domain.StatusPending
	var approvedBy *int64
	var decisionAt *time.Time
	if autoApprove {
		status = domain.StatusApproved
		approvedBy = &resource.OwnerID
		decisionAt = &now
	}

	booking, err := s.bookingRepo.Create(ctx, &domain.Booking{
		ResourceID:    resource.ID,
		UserID:        entry.UserID,
		StartTime:     entry.StartTime,
		EndTime:       entry.EndTime,
		Purpose:       purpose,
		Status:        status,
		ApprovedBy:    approvedBy,
		DecisionAt:    decisionAt,
		BookedByAdmin: true,
	})
	if err != nil {
		s.logger.Error("PromoteNext: booking creation failed for entry=%d: %v", entry.ID, err)
		return nil, fmt.Errorf("%w: PromoteNext - create booking: %v", ErrInternal, err)
	}

	if !autoApprove {
		_, err = s.approvalRepo.Create(ctx, &domain.ApprovalRequest{
			ResourceID:  resource.ID,
			RequesterID: entry.UserID,
			BookingID:   &booking.ID,
			StartTime:   booking.StartTime,
			EndTime:     booking.EndTime,
			Purpose:     purpose,
			Kind:        domain.ApprovalKindOwner,
			Status:      domain.ApprovalPending,
		})
		if err != nil {
			s.logger.Error("PromoteNext: approval request creation failed for booking=%d: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: PromoteNext - create approval request: %v", ErrInternal, err)
		}
	}

	if err := s.waitlistRepo.MarkConverted(ctx, entry.ID); err != nil {
		return nil, fmt.Errorf("%w: PromoteNext - mark converted: %v", ErrInternal, err)
	}
	entry.Status = domain.WaitlistConverted
	entry.Notified = true

	s.logger.Info("PromoteNext: entry=%d promoted to booking=%d on resource=%d (status=%s)",
		entry.ID, booking.ID, resource.ID, booking.Status)
	return &Promotion{Entry: entry, Booking: booking}, nil
}
