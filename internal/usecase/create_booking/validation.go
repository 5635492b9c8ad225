package create_booking

import (
	"fmt"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}

	if req.OnBehalfOf != nil && *req.OnBehalfOf <= 0 {
		return fmt.Errorf("%w: onBehalfOf must be positive", ErrInvalidInput)
	}

	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if req.Recurrence != nil {
		if _, err := toCadence(req.Recurrence.Cadence); err != nil {
			return err
		}
		if req.Recurrence.Count < 1 || req.Recurrence.Count > domain.MaxRecurrenceCount {
			return fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRecurrence, domain.MaxRecurrenceCount)
		}
	}

	return nil
}

// toCadence конвертирует строку запроса в domain.RecurrenceCadence
func toCadence(cadence string) (domain.RecurrenceCadence, error) {
	switch domain.RecurrenceCadence(cadence) {
	case domain.RecurrenceDaily:
		return domain.RecurrenceDaily, nil
	case domain.RecurrenceWeekly:
		return domain.RecurrenceWeekly, nil
	default:
		return domain.RecurrenceNone, fmt.Errorf("%w: cadence must be daily or weekly", ErrInvalidRecurrence)
	}
}

// expandOccurrences разворачивает запрос в список независимых окон
func expandOccurrences(req *Request) ([]domain.Occurrence, error) {
	start := req.StartTime.UTC()
	end := req.EndTime.UTC()

	if req.Recurrence == nil {
		return []domain.Occurrence{{Start: start, End: end}}, nil
	}

	cadence, err := toCadence(req.Recurrence.Cadence)
	if err != nil {
		return nil, err
	}

	return domain.ExpandRecurrence(start, end, cadence, req.Recurrence.Count), nil
}
