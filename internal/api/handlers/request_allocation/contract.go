package request_allocation

import (
	"context"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
)

type ApprovalService interface {
	RequestAllocation(ctx context.Context, resourceID, requesterID int64, start, end time.Time, purpose string, note *string) (*domain.ApprovalRequest, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
