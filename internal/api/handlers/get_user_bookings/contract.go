package get_user_bookings

import (
	"context"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	"github.com/m04kA/CRH-SchedulingService/internal/integrations/identity"
)

type BookingService interface {
	ListByUser(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
}

type IdentityClient interface {
	GetUser(ctx context.Context, userID int64) (*identity.User, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
