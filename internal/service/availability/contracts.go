package availability

import (
	"context"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListActiveOverlapping(ctx context.Context, resourceID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
}

// DowntimeRepository интерфейс репозитория окон обслуживания
type DowntimeRepository interface {
	ListOverlapping(ctx context.Context, resourceID int64, start, end time.Time) ([]*domain.DowntimeBlock, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
