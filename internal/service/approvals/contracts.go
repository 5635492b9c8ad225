package approvals

import (
	"context"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	"github.com/m04kA/CRH-SchedulingService/internal/integrations/identity"
)

// ApprovalRepository интерфейс репозитория заявок на подтверждение
type ApprovalRepository interface {
	Create(ctx context.Context, req *domain.ApprovalRequest) (*domain.ApprovalRequest, error)
	FindPendingAllocator(ctx context.Context, resourceID, requesterID int64) (*domain.ApprovalRequest, error)
	ListPending(ctx context.Context, kind domain.ApprovalKind) ([]*domain.ApprovalRequest, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// IdentityClient интерфейс клиента провайдера идентификации
type IdentityClient interface {
	GetUser(ctx context.Context, userID int64) (*identity.User, error)
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
