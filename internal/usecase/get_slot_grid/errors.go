package get_slot_grid

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("get_slot_grid: resource not found")

	// ErrResourceNotBookable возвращается, когда ресурс не опубликован
	ErrResourceNotBookable = errors.New("get_slot_grid: resource is not open for booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_slot_grid: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_slot_grid: internal error")
)
