package request_allocation

import (
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
)

// AllocationRequest HTTP request model
type AllocationRequest struct {
	StartTime string  `json:"startTime"` // RFC3339
	EndTime   string  `json:"endTime"`   // RFC3339
	Purpose   string  `json:"purpose"`
	Note      *string `json:"note,omitempty"`
}

// AllocationResponse HTTP response model
type AllocationResponse struct {
	ID          int64   `json:"id"`
	ResourceID  int64   `json:"resourceId"`
	RequesterID int64   `json:"requesterId"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Purpose     string  `json:"purpose"`
	Note        *string `json:"note,omitempty"`
	Kind        string  `json:"kind"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(req *domain.ApprovalRequest) *AllocationResponse {
	return &AllocationResponse{
		ID:          req.ID,
		ResourceID:  req.ResourceID,
		RequesterID: req.RequesterID,
		StartTime:   req.StartTime.Format(time.RFC3339),
		EndTime:     req.EndTime.Format(time.RFC3339),
		Purpose:     req.Purpose,
		Note:        req.Note,
		Kind:        string(req.Kind),
		Status:      string(req.Status),
		CreatedAt:   req.CreatedAt.Format(time.RFC3339),
	}
}
