package create_booking

import (
	"time"

	createBooking "github.com/m04kA/CRH-SchedulingService/internal/usecase/create_booking"
)

// RecurrenceRequest параметры повторения в HTTP запросе
type RecurrenceRequest struct {
	Cadence string `json:"cadence"` // daily | weekly
	Count   int    `json:"count"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	OnBehalfOf *int64             `json:"onBehalfOf,omitempty"`
	ResourceID int64              `json:"resourceId"`
	StartTime  string             `json:"startTime"` // RFC3339
	EndTime    string             `json:"endTime"`   // RFC3339
	Purpose    string             `json:"purpose"`
	Recurrence *RecurrenceRequest `json:"recurrence,omitempty"`
}

// BookingResponse одно созданное бронирование
type BookingResponse struct {
	ID               int64  `json:"id"`
	ResourceID       int64  `json:"resourceId"`
	UserID           int64  `json:"userId"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	Purpose          string `json:"purpose,omitempty"`
	Status           string `json:"status"`
	BookedByAdmin    bool   `json:"bookedByAdmin,omitempty"`
	RequiresApproval bool   `json:"requiresApproval"`
	CreatedAt        string `json:"createdAt"`
}

// CreateBookingResponse HTTP response model: весь созданный пакет
type CreateBookingResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(requesterID int64) (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		RequesterID: requesterID,
		OnBehalfOf:  r.OnBehalfOf,
		ResourceID:  r.ResourceID,
		StartTime:   start,
		EndTime:     end,
		Purpose:     r.Purpose,
	}
	if r.Recurrence != nil {
		req.Recurrence = &createBooking.RecurrenceSpec{
			Cadence: r.Recurrence.Cadence,
			Count:   r.Recurrence.Count,
		}
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	bookings := make([]BookingResponse, 0, len(resp.Bookings))
	for _, b := range resp.Bookings {
		bookings = append(bookings, BookingResponse{
			ID:               b.ID,
			ResourceID:       b.ResourceID,
			UserID:           b.UserID,
			StartTime:        b.StartTime.Format(time.RFC3339),
			EndTime:          b.EndTime.Format(time.RFC3339),
			Purpose:          b.Purpose,
			Status:           b.Status,
			BookedByAdmin:    b.BookedByAdmin,
			RequiresApproval: b.RequiresApproval,
			CreatedAt:        b.CreatedAt.Format(time.RFC3339),
		})
	}
	return &CreateBookingResponse{Bookings: bookings}
}
