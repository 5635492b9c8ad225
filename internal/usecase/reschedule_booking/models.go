package reschedule_booking

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	ActorID       int64      // ID администратора, выполняющего перенос
	BookingID     int64      // ID переносимого бронирования
	NewStart      time.Time  // Новое начало окна
	NewResourceID *int64     // Целевой ресурс (опционально, по умолчанию прежний)
}

// Response модель ответа с обновлённым бронированием
// Длительность окна всегда сохраняется: конец = новое начало + прежняя длительность
type Response struct {
	ID         int64
	ResourceID int64
	UserID     int64
	StartTime  time.Time
	EndTime    time.Time
	Status     string
	UpdatedAt  time.Time
}
