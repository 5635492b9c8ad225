package availability

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("resource not found")

	// ErrResourceNotBookable возвращается, когда ресурс не опубликован
	ErrResourceNotBookable = errors.New("resource is not open for booking")

	// ErrResourceUnderDowntime возвращается, когда окно пересекается
	// с обслуживанием ресурса
	ErrResourceUnderDowntime = errors.New("resource is under downtime")

	// ErrCapacityExceeded возвращается, когда вместимость ресурса исчерпана
	ErrCapacityExceeded = errors.New("resource capacity exceeded")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability service: internal error")
)
