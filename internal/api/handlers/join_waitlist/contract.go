package join_waitlist

import (
	"context"
	"time"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
)

type WaitlistService interface {
	Join(ctx context.Context, resourceID, userID int64, start, end time.Time, purpose *string) (*domain.WaitlistEntry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
