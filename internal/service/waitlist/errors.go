package waitlist

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("resource not found")

	// ErrResourceNotBookable возвращается, когда ресурс не опубликован
	ErrResourceNotBookable = errors.New("resource is not open for booking")

	// ErrInvalidTimeBlock возвращается при некорректном временном окне
	ErrInvalidTimeBlock = errors.New("invalid time block")

	// ErrWindowInPast возвращается, когда окно начинается в прошлом
	ErrWindowInPast = errors.New("window starts in the past")

	// ErrAlreadyWaiting возвращается, когда пользователь уже стоит
	// в листе ожидания на это окно
	ErrAlreadyWaiting = errors.New("user is already on the waitlist for this window")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("waitlist service: internal error")
)
