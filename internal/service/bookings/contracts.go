package bookings

import (
	"context"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	"github.com/m04kA/CRH-SchedulingService/internal/integrations/identity"
	"github.com/m04kA/CRH-SchedulingService/internal/integrations/notifysink"
	"github.com/m04kA/CRH-SchedulingService/internal/service/waitlist"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	Approve(ctx context.Context, id int64, approverID int64, decidedAt time.Time) error
	Reject(ctx context.Context, id int64, reason *string, decidedAt time.Time) error
	Cancel(ctx context.Context, id int64, reason string, decidedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// ApprovalRepository интерфейс репозитория заявок на подтверждение
type ApprovalRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.ApprovalRequest, error)
	Mark(ctx context.Context, id int64, status domain.ApprovalStatus, note *string, decidedAt time.Time) error
}

// AvailabilityService интерфейс сервиса доступности
type AvailabilityService interface {
	EnsureCapacity(ctx context.Context, resource *domain.Resource, start, end time.Time, excludeBookingID *int64) error
}

// WaitlistService интерфейс сервиса листа ожидания
type WaitlistService interface {
	PromoteNext(ctx context.Context, resource *domain.Resource, freedStart, freedEnd time.Time) (*waitlist.Promotion, error)
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
