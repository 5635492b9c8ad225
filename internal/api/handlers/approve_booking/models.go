package approve_booking

import (
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
)

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64   `json:"id"`
	ResourceID int64   `json:"resourceId"`
	UserID     int64   `json:"userId"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Status     string  `json:"status"`
	ApprovedBy *int64  `json:"approvedBy,omitempty"`
	DecisionAt *string `json:"decisionAt,omitempty"`
	UpdatedAt  string  `json:"updatedAt"`
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:         b.ID,
		ResourceID: b.ResourceID,
		UserID:     b.UserID,
		StartTime:  b.StartTime.Format(time.RFC3339),
		EndTime:    b.EndTime.Format(time.RFC3339),
		Status:     string(b.Status),
		ApprovedBy: b.ApprovedBy,
		UpdatedAt:  b.UpdatedAt.Format(time.RFC3339),
	}
	if b.DecisionAt != nil {
		decisionAt := b.DecisionAt.Format(time.RFC3339)
		resp.DecisionAt = &decisionAt
	}
	return resp
}
