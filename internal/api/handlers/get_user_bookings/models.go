package get_user_bookings

import (
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
)

// BookingResponse одно бронирование пользователя
type BookingResponse struct {
	ID            int64  `json:"id"`
	ResourceID    int64  `json:"resourceId"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Purpose       string `json:"purpose,omitempty"`
	Status        string `json:"status"`
	BookedByAdmin bool   `json:"bookedByAdmin,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// UserBookingsResponse HTTP response model
type UserBookingsResponse struct {
	UserID   int64             `json:"userId"`
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomain конвертирует список доменных моделей в HTTP response
func FromDomain(userID int64, list []*domain.Booking) *UserBookingsResponse {
	bookings := make([]BookingResponse, 0, len(list))
	for _, b := range list {
		bookings = append(bookings, BookingResponse{
			ID:            b.ID,
			ResourceID:    b.ResourceID,
			StartTime:     b.StartTime.Format(time.RFC3339),
			EndTime:       b.EndTime.Format(time.RFC3339),
			Purpose:       b.Purpose,
			Status:        string(b.Status),
			BookedByAdmin: b.BookedByAdmin,
			CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		})
	}
	return &UserBookingsResponse{
		UserID:   userID,
		Bookings: bookings,
	}
}
