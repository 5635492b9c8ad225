package list_allocations

import (
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
)

// AllocationResponse один запрос на выделение ресурса
type AllocationResponse struct {
	ID          int64   `json:"id"`
	ResourceID  int64   `json:"resourceId"`
	RequesterID int64   `json:"requesterId"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Purpose     string  `json:"purpose"`
	Note        *string `json:"note,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

// AllocationsResponse HTTP response model
type AllocationsResponse struct {
	Requests []AllocationResponse `json:"requests"`
}

// FromDomain конвертирует список доменных моделей в HTTP response
func FromDomain(list []*domain.ApprovalRequest) *AllocationsResponse {
	requests := make([]AllocationResponse, 0, len(list))
	for _, req := range list {
		requests = append(requests, AllocationResponse{
			ID:          req.ID,
			ResourceID:  req.ResourceID,
			RequesterID: req.RequesterID,
			StartTime:   req.StartTime.Format(time.RFC3339),
			EndTime:     req.EndTime.Format(time.RFC3339),
			Purpose:     req.Purpose,
			Note:        req.Note,
			Status:      string(req.Status),
			CreatedAt:   req.CreatedAt.Format(time.RFC3339),
		})
	}
	return &AllocationsResponse{Requests: requests}
}
