package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("resource not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrNotPending возвращается, когда решение принимается по бронированию,
	// уже вышедшему из ожидания
	ErrNotPending = errors.New("booking is not pending")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrCapacityExceeded возвращается, когда подтверждение не помещается
	// в вместимость окна
	ErrCapacityExceeded = errors.New("resource capacity exceeded")

	// ErrResourceUnderDowntime возвращается, когда окно пересекается
	// с обслуживанием ресурса
	ErrResourceUnderDowntime = errors.New("resource is under downtime")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings service: internal error")
)
