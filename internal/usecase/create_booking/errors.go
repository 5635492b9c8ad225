package create_booking

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("create_booking: resource not found")

	// ErrResourceNotBookable возвращается, когда ресурс не опубликован
	ErrResourceNotBookable = errors.New("create_booking: resource is not open for booking")

	// ErrInvalidTimeBlock возвращается при некорректном временном окне
	ErrInvalidTimeBlock = errors.New("create_booking: invalid time block")

	// ErrWindowInPast возвращается, когда окно начинается в прошлом
	ErrWindowInPast = errors.New("create_booking: window starts in the past")

	// ErrInvalidRecurrence возвращается при некорректных параметрах повторения
	ErrInvalidRecurrence = errors.New("create_booking: invalid recurrence")

	// ErrResourceUnderDowntime возвращается, когда одно из окон пересекается
	// с обслуживанием ресурса
	ErrResourceUnderDowntime = errors.New("create_booking: resource is under downtime")

	// ErrCapacityExceeded возвращается, когда вместимость одного из окон исчерпана
	ErrCapacityExceeded = errors.New("create_booking: resource capacity exceeded")

	// ErrAccessDenied возвращается, когда бронирование от чужого имени
	// запрашивает не администратор
	ErrAccessDenied = errors.New("create_booking: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
