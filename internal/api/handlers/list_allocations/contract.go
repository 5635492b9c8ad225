package list_allocations

import (
	"context"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
)

type ApprovalService interface {
	ListPendingAllocations(ctx context.Context, actorID int64) ([]*domain.ApprovalRequest, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
