package check_availability

import (
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/service/availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ResourceID int64  `json:"resourceId"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Available  bool   `json:"available"`
	Remaining  int    `json:"remaining"`
	Capacity   int    `json:"capacity"`
	Downtime   bool   `json:"downtime"`
	Reason     string `json:"reason,omitempty"`
}

// FromAvailability конвертирует результат сервиса в HTTP response
func FromAvailability(a *availability.Availability, start, end time.Time) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		ResourceID: a.Resource.ID,
		Start:      start.UTC().Format(time.RFC3339),
		End:        end.UTC().Format(time.RFC3339),
		Available:  a.Available(),
		Remaining:  a.Remaining,
		Capacity:   a.Resource.Capacity,
	}
	if a.Downtime != nil {
		resp.Downtime = true
		resp.Reason = a.Downtime.ReasonOrDefault()
	}
	return resp
}
