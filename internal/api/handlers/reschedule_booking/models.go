package reschedule_booking

import (
	"time"

	rescheduleBooking "github.com/m04kA/CRH-SchedulingService/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	NewStart      string `json:"newStart"` // RFC3339
	NewResourceID *int64 `json:"newResourceId,omitempty"`
}

// RescheduleBookingResponse HTTP response model
type RescheduleBookingResponse struct {
	ID         int64  `json:"id"`
	ResourceID int64  `json:"resourceId"`
	UserID     int64  `json:"userId"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Status     string `json:"status"`
	UpdatedAt  string `json:"updatedAt"`
}

// ConflictResponse данные о занятом окне при конфликте переноса
type ConflictResponse struct {
	Error                string `json:"error"`
	ConflictingBookingID int64  `json:"conflictingBookingId"`
	ConflictStart        string `json:"conflictStart"`
	ConflictEnd          string `json:"conflictEnd"`
	Hint                 string `json:"hint,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(actorID, bookingID int64) (*rescheduleBooking.Request, error) {
	newStart, err := time.Parse(time.RFC3339, r.NewStart)
	if err != nil {
		return nil, err
	}
	return &rescheduleBooking.Request{
		ActorID:       actorID,
		BookingID:     bookingID,
		NewStart:      newStart,
		NewResourceID: r.NewResourceID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleBookingResponse {
	return &RescheduleBookingResponse{
		ID:         resp.ID,
		ResourceID: resp.ResourceID,
		UserID:     resp.UserID,
		StartTime:  resp.StartTime.Format(time.RFC3339),
		EndTime:    resp.EndTime.Format(time.RFC3339),
		Status:     resp.Status,
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}
