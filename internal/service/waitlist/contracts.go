package waitlist

import (
	"context"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	"github.com/m04kA/CRH-SchedulingService/internal/service/availability"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	MaxPosition(ctx context.Context, resourceID int64) (int, error)
	FindByUserAndWindow(ctx context.Context, resourceID, userID int64, start, end time.Time) (*domain.WaitlistEntry, error)
	NextWaiting(ctx context.Context, resourceID int64, start, end time.Time) (*domain.WaitlistEntry, error)
	Requeue(ctx context.Context, id int64, position int, createdAt time.Time) error
	MarkConverted(ctx context.Context, id int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ApprovalRepository интерфейс репозитория заявок на подтверждение
type ApprovalRepository interface {
	Create(ctx context.Context, request *domain.ApprovalRequest) (*domain.ApprovalRequest, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// AvailabilityService интерфейс сервиса доступности
type AvailabilityService interface {
	RemainingCapacity(ctx context.Context, resource *domain.Resource, start, end time.Time, excludeBookingID *int64) (*availability.Availability, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
