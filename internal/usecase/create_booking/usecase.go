package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	resourceRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/resource"
	"github.com/m04kA/CRH-SchedulingService/internal/integrations/notifysink"
	"github.com/m04kA/CRH-SchedulingService/internal/service/availability"
)

// UseCase use case планирования бронирования
//
// Один запрос может развернуться в пакет повторяющихся окон. Пакет
// атомарен: все окна проверяются и создаются в одной сериализуемой
// транзакции, отказ любого окна откатывает весь пакет
type UseCase struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	approvalRepo ApprovalRepository
	availability AvailabilityService
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
	approvalRepo ApprovalRepository,
	availabilitySvc AvailabilityService,
	identityClient IdentityClient,
	notifier NotifyClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		approvalRepo: approvalRepo,
		availability: availabilitySvc,
		identity:     identityClient,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: requester=%d, resource=%d, window=%s - %s",
		req.RequesterID, req.ResourceID,
		req.StartTime.Format(time.RFC3339), req.EndTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Структурная валидация исходного окна
	if err := domain.ValidateTimeBlock(req.StartTime, req.EndTime); err != nil {
		uc.logger.Warn("CreateBooking: time block validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeBlock, err)
	}

	now := uc.timeProvider.Now().UTC()

	// 3. Определяем получателя брони: администратор может бронировать
	// от чужого имени
	beneficiaryID := req.RequesterID
	bookedByAdmin := false
	if req.OnBehalfOf != nil && *req.OnBehalfOf != req.RequesterID {
		user, err := uc.identity.GetUser(ctx, req.RequesterID)
		if err != nil {
			uc.logger.Error("CreateBooking: identity lookup failed for user=%d: %v", req.RequesterID, err)
			return nil, fmt.Errorf("%w: identity lookup: %v", ErrInternal, err)
		}
		if !user.IsAdmin() {
			uc.logger.Warn("CreateBooking: user=%d tried to book on behalf of user=%d", req.RequesterID, *req.OnBehalfOf)
			return nil, ErrAccessDenied
		}
		beneficiaryID = *req.OnBehalfOf
		bookedByAdmin = true
	}

	// 4. Получаем ресурс
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("CreateBooking: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if !resource.IsPublished() {
		uc.logger.Warn("CreateBooking: resource id=%d is not published", req.ResourceID)
		return nil, ErrResourceNotBookable
	}

	// 5. Разворачиваем повторения в независимые окна
	occurrences, err := expandOccurrences(req)
	if err != nil {
		return nil, err
	}

	// 6. Все окна должны начинаться в будущем
	for _, occ := range occurrences {
		if !occ.Start.After(now) {
			uc.logger.Warn("CreateBooking: occurrence %s starts in the past", occ.Start.Format(time.RFC3339))
			return nil, ErrWindowInPast
		}
	}

	// 7. Политика подтверждения: публичный ресурс и бронь владельца
	// минуют очередь владельца
	autoApprove := resource.AutoApproves(beneficiaryID)
	status := domain.StatusPending
	if autoApprove {
		status = domain.StatusApproved
	}

	created := make([]*domain.Booking, 0, len(occurrences))
	pendingRequests := make([]*domain.ApprovalRequest, 0)

	// 8. Проверяем и создаем весь пакет в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created = created[:0]
		pendingRequests = pendingRequests[:0]

		for _, occ := range occurrences {
			// 8.1. Вместимость окна под блокировкой пересекающихся строк
			if err := uc.availability.EnsureCapacity(txCtx, resource, occ.Start, occ.End, nil); err != nil {
				return uc.mapCapacityError(occ, err)
			}

			booking := &domain.Booking{
				ResourceID:    resource.ID,
				UserID:        beneficiaryID,
				StartTime:     occ.Start,
				EndTime:       occ.End,
				Purpose:       req.Purpose,
				Status:        status,
				BookedByAdmin: bookedByAdmin,
			}
			if autoApprove {
				booking.DecisionAt = &now
			}

			// 8.2. Сохраняем бронирование
			saved, err := uc.bookingRepo.Create(txCtx, booking)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to create booking: %v", err)
				return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
			}
			created = append(created, saved)

			// 8.3. Ожидающая бронь получает заявку владельцу ресурса
			if !autoApprove {
				request, err := uc.approvalRepo.Create(txCtx, &domain.ApprovalRequest{
					ResourceID:  resource.ID,
					RequesterID: beneficiaryID,
					BookingID:   &saved.ID,
					StartTime:   saved.StartTime,
					EndTime:     saved.EndTime,
					Purpose:     req.Purpose,
					Kind:        domain.ApprovalKindOwner,
					Status:      domain.ApprovalPending,
				})
				if err != nil {
					uc.logger.Error("CreateBooking: failed to create approval request: %v", err)
					return fmt.Errorf("%w: failed to create approval request: %v", ErrInternal, err)
				}
				pendingRequests = append(pendingRequests, request)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created %d booking(s) for user=%d on resource=%d, status=%s",
		len(created), beneficiaryID, resource.ID, status)

	// 9. Уведомления после коммита: доставка негарантированная
	uc.notifyCreated(ctx, resource, created, pendingRequests, beneficiaryID)

	return toResponse(created, !autoApprove), nil
}

func (uc *UseCase) mapCapacityError(occ domain.Occurrence, err error) error {
	switch {
	case errors.Is(err, availability.ErrCapacityExceeded):
		uc.logger.Warn("CreateBooking: no capacity in window %s - %s",
			occ.Start.Format(time.RFC3339), occ.End.Format(time.RFC3339))
		return fmt.Errorf("%w: window %s - %s", ErrCapacityExceeded,
			occ.Start.Format(time.RFC3339), occ.End.Format(time.RFC3339))
	case errors.Is(err, availability.ErrResourceUnderDowntime):
		uc.logger.Warn("CreateBooking: downtime in window %s - %s",
			occ.Start.Format(time.RFC3339), occ.End.Format(time.RFC3339))
		return fmt.Errorf("%w: window %s - %s", ErrResourceUnderDowntime,
			occ.Start.Format(time.RFC3339), occ.End.Format(time.RFC3339))
	default:
		return fmt.Errorf("%w: capacity check: %v", ErrInternal, err)
	}
}

func (uc *UseCase) notifyCreated(ctx context.Context, resource *domain.Resource, created []*domain.Booking, requests []*domain.ApprovalRequest, beneficiaryID int64) {
	if len(created) == 0 {
		return
	}

	message := fmt.Sprintf("Создано бронирований: %d, ресурс «%s»", len(created), resource.Title)
	if created[0].IsPending() {
		message += ", ожидают подтверждения владельца"
	}
	uc.notify(ctx, beneficiaryID, "Бронирование создано", message, notifysink.KindBookingCreated, created[0].ID)

	// Владелец получает по одному уведомлению на каждую заявку
	for _, req := range requests {
		uc.notify(ctx, resource.OwnerID, "Новая заявка на подтверждение",
			fmt.Sprintf("Бронирование №%d ресурса «%s» ожидает вашего решения", *req.BookingID, resource.Title),
			notifysink.KindApprovalRequest, *req.BookingID)
	}
}

func (uc *UseCase) notify(ctx context.Context, userID int64, title, message string, kind notifysink.NotificationKind, bookingID int64) {
	err := uc.notifier.Notify(ctx, notifysink.Notification{
		UserID:      userID,
		Title:       title,
		Message:     message,
		Kind:        kind,
		RelatedLink: fmt.Sprintf("/bookings/%d", bookingID),
	})
	if err != nil {
		uc.logger.Warn("CreateBooking: notification delivery failed for user=%d: %v", userID, err)
	}
}

func toResponse(created []*domain.Booking, requiresApproval bool) *Response {
	results := make([]BookingResult, 0, len(created))
	for _, b := range created {
		results = append(results, BookingResult{
			ID:               b.ID,
			ResourceID:       b.ResourceID,
			UserID:           b.UserID,
			StartTime:        b.StartTime,
			EndTime:          b.EndTime,
			Purpose:          b.Purpose,
			Status:           string(b.Status),
			BookedByAdmin:    b.BookedByAdmin,
			RequiresApproval: requiresApproval,
			CreatedAt:        b.CreatedAt,
		})
	}
	return &Response{Bookings: results}
}
