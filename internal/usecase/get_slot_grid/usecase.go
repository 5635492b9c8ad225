package get_slot_grid

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	resourceRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/resource"
)

// UseCase use case проекции календаря ресурса в часовую сетку
type UseCase struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	downtimeRepo DowntimeRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	downtimeRepo DowntimeRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		downtimeRepo: downtimeRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case построения сетки слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetSlotGrid: user=%d, resource=%d, days=%d", req.UserID, req.ResourceID, req.Days)

	// 1. Валидация входных данных
	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}
	days := req.Days
	if days == 0 {
		days = domain.DefaultGridDays
	}
	if days < 1 || days > 31 {
		return nil, fmt.Errorf("%w: days must be between 1 and 31", ErrInvalidInput)
	}

	// 2. Получаем ресурс
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetSlotGrid: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetSlotGrid: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if !resource.IsPublished() {
		uc.logger.Warn("GetSlotGrid: resource id=%d is not published", req.ResourceID)
		return nil, ErrResourceNotBookable
	}

	now := uc.timeProvider.Now().UTC()

	// 3. Первый день сетки: сегодня либо явный якорь в будущем
	anchorDay := startOfDay(now)
	if req.Anchor != nil {
		anchor := startOfDay(req.Anchor.UTC())
		if anchor.Before(anchorDay) {
			return nil, fmt.Errorf("%w: anchor must not be in the past", ErrInvalidInput)
		}
		anchorDay = anchor
	}

	// 4. Границы всего диапазона сетки: одна выборка на таблицу
	// вместо запроса на каждую ячейку
	rangeStart := now.Truncate(time.Hour)
	if anchorDay.After(rangeStart) {
		rangeStart = anchorDay
	}
	rangeEnd := anchorDay.AddDate(0, 0, days)

	bookings, err := uc.bookingRepo.ListActiveOverlapping(ctx, resource.ID, rangeStart, rangeEnd, nil)
	if err != nil {
		uc.logger.Error("GetSlotGrid: failed to list bookings for resource=%d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	blocks, err := uc.downtimeRepo.ListOverlapping(ctx, resource.ID, rangeStart, rangeEnd)
	if err != nil {
		uc.logger.Error("GetSlotGrid: failed to list downtime for resource=%d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: failed to list downtime: %v", ErrInternal, err)
	}

	// 5. Проецируем календарь в сетку
	grid := buildGrid(resource, now, anchorDay, days, bookings, blocks)

	uc.logger.Info("GetSlotGrid: built %d day(s) for resource=%d", len(grid), resource.ID)
	return toResponse(resource, now, grid), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toResponse(resource *domain.Resource, now time.Time, grid []domain.SlotDay) *Response {
	days := make([]Day, 0, len(grid))
	for _, gridDay := range grid {
		slots := make([]Slot, 0, len(gridDay.Slots))
		for _, s := range gridDay.Slots {
			slots = append(slots, Slot{
				StartTime: s.StartTime.Format(domain.SlotTimeFormat),
				EndTime:   s.EndTime.Format(domain.SlotTimeFormat),
				Label:     s.StartTime.Format(domain.HourLabelFormat),
				Status:    string(s.Status),
				Hint:      s.Hint,
				Remaining: s.Remaining,
				Capacity:  s.Capacity,
			})
		}
		days = append(days, Day{
			Date:  gridDay.Date,
			Label: gridDay.Date.Format(domain.DayLabelFormat),
			Slots: slots,
		})
	}

	return &Response{
		ResourceID:  resource.ID,
		GeneratedAt: now,
		Days:        days,
	}
}
