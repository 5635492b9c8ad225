package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	"github.com/m04kA/CRH-SchedulingService/internal/integrations/identity"
	"github.com/m04kA/CRH-SchedulingService/internal/integrations/notifysink"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListActiveOverlapping(ctx context.Context, resourceID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
	Reschedule(ctx context.Context, id int64, resourceID int64, start, end time.Time) error
	Approve(ctx context.Context, id int64, approverID int64, decidedAt time.Time) error
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// DowntimeRepository интерфейс репозитория окон обслуживания
type DowntimeRepository interface {
	ListOverlapping(ctx context.Context, resourceID int64, start, end time.Time) ([]*domain.DowntimeBlock, error)
}

// ApprovalRepository интерфейс репозитория заявок на подтверждение
type ApprovalRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.ApprovalRequest, error)
	Mark(ctx context.Context, id int64, status domain.ApprovalStatus, note *string, decidedAt time.Time) error
}

// IdentityClient интерфейс клиента провайдера идентификации
type IdentityClient interface {
	GetUser(ctx context.Context, userID int64) (*identity.User, error)
}

// NotifyClient интерфейс клиента сервиса уведомлений
type NotifyClient interface {
	Notify(ctx context.Context, n notifysink.Notification) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
