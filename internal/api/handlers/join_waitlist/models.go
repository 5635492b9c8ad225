package join_waitlist

import (
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
)

// JoinWaitlistRequest HTTP request model
type JoinWaitlistRequest struct {
	StartTime string  `json:"startTime"` // RFC3339
	EndTime   string  `json:"endTime"`   // RFC3339
	Purpose   *string `json:"purpose,omitempty"`
}

// WaitlistEntryResponse HTTP response model
type WaitlistEntryResponse struct {
	ID         int64   `json:"id"`
	ResourceID int64   `json:"resourceId"`
	UserID     int64   `json:"userId"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Purpose    *string `json:"purpose,omitempty"`
	Position   *int    `json:"position,omitempty"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"createdAt"`
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(e *domain.WaitlistEntry) *WaitlistEntryResponse {
	return &WaitlistEntryResponse{
		ID:         e.ID,
		ResourceID: e.ResourceID,
		UserID:     e.UserID,
		StartTime:  e.StartTime.Format(time.RFC3339),
		EndTime:    e.EndTime.Format(time.RFC3339),
		Purpose:    e.Purpose,
		Position:   e.Position,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}
