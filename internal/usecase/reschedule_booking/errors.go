package reschedule_booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrResourceNotFound возвращается, когда целевой ресурс не найден
	ErrResourceNotFound = errors.New("reschedule_booking: resource not found")

	// ErrResourceNotBookable возвращается, когда целевой ресурс не опубликован
	ErrResourceNotBookable = errors.New("reschedule_booking: resource is not open for booking")

	// ErrAccessDenied возвращается, когда перенос запрашивает не администратор
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrBookingInactive возвращается при попытке перенести неактивное бронирование
	ErrBookingInactive = errors.New("reschedule_booking: booking is not active")

	// ErrDowntimeConflict возвращается, когда целевое окно пересекается
	// с обслуживанием ресурса
	ErrDowntimeConflict = errors.New("reschedule_booking: target window is under downtime")

	// ErrWindowConflict возвращается, когда целевое окно не вмещает бронирование
	ErrWindowConflict = errors.New("reschedule_booking: target window conflicts with an existing booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)

// WindowConflictError несёт данные конфликтующего бронирования,
// чтобы вызывающая сторона показала занятое окно
type WindowConflictError struct {
	ConflictingBookingID int64
	Start                time.Time
	End                  time.Time
}

func (e *WindowConflictError) Error() string {
	return fmt.Sprintf("%v: booking %d occupies %s - %s", ErrWindowConflict,
		e.ConflictingBookingID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// Unwrap позволяет errors.Is сопоставлять ошибку с ErrWindowConflict
func (e *WindowConflictError) Unwrap() error {
	return ErrWindowConflict
}
