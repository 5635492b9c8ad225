package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	resourceRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/resource"
)

// Availability результат проверки доступности окна на ресурсе
type Availability struct {
	Resource  *domain.Resource
	Remaining int
	Downtime  *domain.DowntimeBlock
}

// Available сообщает, можно ли занять хотя бы одно место в окне
func (a *Availability) Available() bool {
	return a.Downtime == nil && a.Remaining > 0
}

// Service сервис расчёта доступной вместимости
//
// Обслуживание ресурса — абсолютный запрет: пересечение с окном
// обслуживания обнуляет вместимость независимо от числа бронирований.
// Иначе остаток = max(0, вместимость - число активных пересечений).
type Service struct {
	resourceRepo ResourceRepository
	bookingRepo  BookingRepository
	downtimeRepo DowntimeRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	resourceRepo ResourceRepository,
	bookingRepo BookingRepository,
	downtimeRepo DowntimeRepository,
	logger Logger,
) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		bookingRepo:  bookingRepo,
		downtimeRepo: downtimeRepo,
		logger:       logger,
	}
}

// CheckWindow проверяет доступность окна на ресурсе по ID
// Мгновенная проверка (start == end) покрывается строгим предикатом
// пересечения: учитываются бронирования, накрывающие момент start
func (s *Service) CheckWindow(ctx context.Context, resourceID int64, start, end time.Time) (*Availability, error) {
	resource, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("CheckWindow: resource id=%d not found", resourceID)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("CheckWindow: repository error for resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: CheckWindow - repository error: %v", ErrInternal, err)
	}

	if !resource.IsPublished() {
		s.logger.Warn("CheckWindow: resource id=%d is not published", resourceID)
		return nil, ErrResourceNotBookable
	}

	return s.RemainingCapacity(ctx, resource, start, end, nil)
}

// RemainingCapacity считает остаток вместимости ресурса в окне [start, end)
// excludeBookingID исключает бронирование из подсчёта пересечений —
// используется при переносе, чтобы бронь не конфликтовала сама с собой
//
// Внутри транзакции строки пересекающихся бронирований блокируются
// репозиторием (FOR UPDATE), поэтому результат устойчив к гонкам
func (s *Service) RemainingCapacity(ctx context.Context, resource *domain.Resource, start, end time.Time, excludeBookingID *int64) (*Availability, error) {
	start = start.UTC()
	end = end.UTC()

	blocks, err := s.downtimeRepo.ListOverlapping(ctx, resource.ID, start, end)
	if err != nil {
		s.logger.Error("RemainingCapacity: downtime lookup failed for resource id=%d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: RemainingCapacity - downtime lookup: %v", ErrInternal, err)
	}

	if len(blocks) > 0 {
		return &Availability{Resource: resource, Remaining: 0, Downtime: blocks[0]}, nil
	}

	overlapping, err := s.bookingRepo.ListActiveOverlapping(ctx, resource.ID, start, end, excludeBookingID)
	if err != nil {
		s.logger.Error("RemainingCapacity: booking lookup failed for resource id=%d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: RemainingCapacity - booking lookup: %v", ErrInternal, err)
	}

	remaining := resource.Capacity - len(overlapping)
	if remaining < 0 {
		remaining = 0
	}

	return &Availability{Resource: resource, Remaining: remaining}, nil
}

// EnsureCapacity проверяет, что в окне есть хотя бы одно свободное место
// Возвращает ErrResourceUnderDowntime или ErrCapacityExceeded при отказе
func (s *Service) EnsureCapacity(ctx context.Context, resource *domain.Resource, start, end time.Time, excludeBookingID *int64) error {
	avail, err := s.RemainingCapacity(ctx, resource, start, end, excludeBookingID)
	if err != nil {
		return err
	}

	if avail.Downtime != nil {
		s.logger.Warn("EnsureCapacity: resource id=%d under downtime %s - %s",
			resource.ID, avail.Downtime.StartTime.Format(time.RFC3339), avail.Downtime.EndTime.Format(time.RFC3339))
		return ErrResourceUnderDowntime
	}
	if avail.Remaining < 1 {
		s.logger.Warn("EnsureCapacity: resource id=%d has no remaining capacity in window", resource.ID)
		return ErrCapacityExceeded
	}

	return nil
}
