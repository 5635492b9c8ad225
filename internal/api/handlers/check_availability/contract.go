package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/service/availability"
)

type AvailabilityService interface {
	CheckWindow(ctx context.Context, resourceID int64, start, end time.Time) (*availability.Availability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
