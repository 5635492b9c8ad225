package approvals

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

	// ErrDuplicateRequest возвращается, когда у пользователя уже есть
	// открытая заявка на выделение этого ресурса
	ErrDuplicateRequest = errors.New("pending allocation request already exists")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("approvals service: internal error")
)
