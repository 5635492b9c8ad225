package create_booking

import "time"

// RecurrenceSpec параметры повторяющегося бронирования
// Каждое повторение — независимое бронирование без групповой связи
type RecurrenceSpec struct {
	Cadence string // daily | weekly
	Count   int    // число повторений, [1, 10]
}

// Request модель запроса на создание бронирования
type Request struct {
	RequesterID int64          // ID инициатора запроса
	OnBehalfOf  *int64         // ID получателя брони (только администратор)
	ResourceID  int64          // ID ресурса
	StartTime   time.Time      // Начало окна (целый час)
	EndTime     time.Time      // Конец окна (целый час)
	Purpose     string         // Цель бронирования
	Recurrence  *RecurrenceSpec // Параметры повторения (опционально)
}

// BookingResult одно созданное бронирование
type BookingResult struct {
	ID               int64
	ResourceID       int64
	UserID           int64
	StartTime        time.Time
	EndTime          time.Time
	Purpose          string
	Status           string
	BookedByAdmin    bool
	RequiresApproval bool
	CreatedAt        time.Time
}

// Response модель ответа: все созданные бронирования пакета
// Пакет атомарен — либо созданы все повторения, либо ни одного
type Response struct {
	Bookings []BookingResult
}
