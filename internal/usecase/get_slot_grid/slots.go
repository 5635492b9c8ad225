package get_slot_grid

import (
	"fmt"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
)

// buildGrid строит часовую сетку на days дней вперёд начиная с дня anchorDay
// Чистая функция: все бронирования и окна обслуживания диапазона
// загружаются вызывающей стороной одним запросом на таблицу
//
// Статус ячейки разрешается строгим приоритетом:
// downtime > full > limited > available
// Ячейки, закончившиеся к моменту now, в сетку не попадают;
// час, идущий прямо сейчас, остаётся видимым
func buildGrid(
	resource *domain.Resource,
	now time.Time,
	anchorDay time.Time,
	days int,
	bookings []*domain.Booking,
	blocks []*domain.DowntimeBlock,
) []domain.SlotDay {
	gridDays := make([]domain.SlotDay, 0, days)

	for d := 0; d < days; d++ {
		day := anchorDay.AddDate(0, 0, d)
		slots := make([]domain.Slot, 0, domain.DefaultDayEndHour-domain.DefaultDayStartHour)

		for hour := domain.DefaultDayStartHour; hour < domain.DefaultDayEndHour; hour++ {
			slotStart := day.Add(time.Duration(hour) * time.Hour)
			slotEnd := slotStart.Add(time.Hour)

			if !slotEnd.After(now) {
				continue
			}

			slots = append(slots, resolveSlot(resource, slotStart, slotEnd, bookings, blocks))
		}

		gridDays = append(gridDays, domain.SlotDay{Date: day, Slots: slots})
	}

	return gridDays
}

func resolveSlot(
	resource *domain.Resource,
	slotStart, slotEnd time.Time,
	bookings []*domain.Booking,
	blocks []*domain.DowntimeBlock,
) domain.Slot {
	slot := domain.Slot{
		StartTime: slotStart,
		EndTime:   slotEnd,
		Capacity:  resource.Capacity,
	}

	for _, block := range blocks {
		if block.Overlaps(slotStart, slotEnd) {
			slot.Status = domain.SlotDowntime
			slot.Hint = block.ReasonOrDefault()
			slot.Remaining = 0
			return slot
		}
	}

	overlapping := 0
	for _, booking := range bookings {
		if booking.IsActive() && booking.Overlaps(slotStart, slotEnd) {
			overlapping++
		}
	}

	remaining := resource.Capacity - overlapping
	if remaining < 0 {
		remaining = 0
	}
	slot.Remaining = remaining

	switch {
	case remaining == 0:
		slot.Status = domain.SlotFull
		slot.Hint = "Fully booked — join waitlist"
	case remaining < resource.Capacity:
		slot.Status = domain.SlotLimited
		slot.Hint = fmt.Sprintf("%d of %d spots left", remaining, resource.Capacity)
	default:
		slot.Status = domain.SlotAvailable
	}

	return slot
}
