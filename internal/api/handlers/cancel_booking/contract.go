package cancel_booking

import (
	"context"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
)

type BookingService interface {
	Cancel(ctx context.Context, id int64, actorID int64, reason string) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
