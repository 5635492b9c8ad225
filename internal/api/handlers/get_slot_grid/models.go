package get_slot_grid

import (
	"time"

	getSlotGrid "github.com/m04kA/CRH-SchedulingService/internal/usecase/get_slot_grid"
)

// SlotResponse одна ячейка сетки
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Label     string `json:"label"`
	Status    string `json:"status"`
	Hint      string `json:"hint,omitempty"`
	Remaining int    `json:"remaining"`
	Capacity  int    `json:"capacity"`
}

// DayResponse слоты одного дня
type DayResponse struct {
	Date  string         `json:"date"`
	Label string         `json:"label"`
	Slots []SlotResponse `json:"slots"`
}

// SlotGridResponse HTTP response model
type SlotGridResponse struct {
	ResourceID  int64         `json:"resourceId"`
	GeneratedAt string        `json:"generatedAt"`
	Days        []DayResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlotGrid.Response) *SlotGridResponse {
	days := make([]DayResponse, 0, len(resp.Days))
	for _, day := range resp.Days {
		slots := make([]SlotResponse, 0, len(day.Slots))
		for _, s := range day.Slots {
			slots = append(slots, SlotResponse{
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
				Label:     s.Label,
				Status:    s.Status,
				Hint:      s.Hint,
				Remaining: s.Remaining,
				Capacity:  s.Capacity,
			})
		}
		days = append(days, DayResponse{
			Date:  day.Date.Format("2006-01-02"),
			Label: day.Label,
			Slots: slots,
		})
	}

	return &SlotGridResponse{
		ResourceID:  resp.ResourceID,
		GeneratedAt: resp.GeneratedAt.Format(time.RFC3339),
		Days:        days,
	}
}
