package approvals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	approvalRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/approval"
	resourceRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/resource"
)

// Service сервис очереди заявок на административное выделение ресурса
//
// Заявка вида allocator не привязана к бронированию: она висит
// в очереди, пока администратор не забронирует ресурс от имени
// заявителя или не откажет
type Service struct {
	approvalRepo ApprovalRepository
	resourceRepo ResourceRepository
	identity     IdentityClient
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса заявок на выделение
func NewService(
	approvalRepo ApprovalRepository,
	resourceRepo ResourceRepository,
	identityClient IdentityClient,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		approvalRepo: approvalRepo,
		resourceRepo: resourceRepo,
		identity:     identityClient,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// RequestAllocation ставит заявку пользователя в очередь администраторов
// Повторная заявка на тот же ресурс не создаётся, пока открыта предыдущая
func (s *Service) RequestAllocation(ctx context.Context, resourceID, requesterID int64, start, end time.Time, purpose string, note *string) (*domain.ApprovalRequest, error) {
	s.logger.Info("RequestAllocation: user=%d requesting resource=%d window=%s - %s",
		requesterID, resourceID, start.Format(time.RFC3339), end.Format(time.RFC3339))

	if err := domain.ValidateTimeBlock(start, end); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeBlock, err)
	}

	start = start.UTC()
	end = end.UTC()

	if !start.After(s.timeProvider.Now().UTC()) {
		return nil, ErrWindowInPast
	}

	resource, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("RequestAllocation: resource lookup failed for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: RequestAllocation - resource lookup: %v", ErrInternal, err)
	}
	if !resource.IsPublished() {
		return nil, ErrResourceNotBookable
	}

	existing, err := s.approvalRepo.FindPendingAllocator(ctx, resourceID, requesterID)
	if err != nil && !errors.Is(err, approvalRepo.ErrRequestNotFound) {
		s.logger.Error("RequestAllocation: dedupe lookup failed for user=%d: %v", requesterID, err)
		return nil, fmt.Errorf("%w: RequestAllocation - dedupe lookup: %v", ErrInternal, err)
	}
	if existing != nil {
		s.logger.Warn("RequestAllocation: user=%d already has pending request=%d for resource=%d",
			requesterID, existing.ID, resourceID)
		return nil, ErrDuplicateRequest
	}

	req, err := s.approvalRepo.Create(ctx, &domain.ApprovalRequest{
		ResourceID:  resourceID,
		RequesterID: requesterID,
		StartTime:   start,
		EndTime:     end,
		Purpose:     purpose,
		Note:        note,
		Kind:        domain.ApprovalKindAllocator,
		Status:      domain.ApprovalPending,
	})
	if err != nil {
		s.logger.Error("RequestAllocation: create failed for user=%d: %v", requesterID, err)
		return nil, fmt.Errorf("%w: RequestAllocation - create request: %v", ErrInternal, err)
	}

	s.logger.Info("RequestAllocation: request=%d queued for resource=%d", req.ID, resourceID)
	return req, nil
}

// ListPendingAllocations возвращает очередь открытых заявок на выделение
// Доступ: только администратор
func (s *Service) ListPendingAllocations(ctx context.Context, actorID int64) ([]*domain.ApprovalRequest, error) {
	user, err := s.identity.GetUser(ctx, actorID)
	if err != nil {
		s.logger.Error("ListPendingAllocations: identity lookup failed for user=%d: %v", actorID, err)
		return nil, fmt.Errorf("%w: identity lookup: %v", ErrInternal, err)
	}
	if !user.IsAdmin() {
		s.logger.Warn("ListPendingAllocations: access denied for user=%d", actorID)
		return nil, ErrAccessDenied
	}

	requests, err := s.approvalRepo.ListPending(ctx, domain.ApprovalKindAllocator)
	if err != nil {
		s.logger.Error("ListPendingAllocations: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListPendingAllocations - repository error: %v", ErrInternal, err)
	}

	return requests, nil
}
