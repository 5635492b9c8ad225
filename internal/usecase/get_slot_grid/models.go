package get_slot_grid

import "time"

// Request модель запроса сетки слотов
type Request struct {
	UserID     int64      // ID пользователя (для логирования, не влияет на результат)
	ResourceID int64      // ID ресурса
	Days       int        // Горизонт сетки в днях, 0 — значение по умолчанию
	Anchor     *time.Time // Первый день сетки (опционально, по умолчанию сегодня)
}

// Slot одна часовая ячейка сетки
type Slot struct {
	StartTime string // Начало ячейки, ISO до минут
	EndTime   string // Конец ячейки, ISO до минут
	Label     string // Человекочитаемая метка часа
	Status    string // downtime | full | limited | available
	Hint      string // Пояснение статуса для интерфейса
	Remaining int    // Свободных мест
	Capacity  int    // Всего мест
}

// Day слоты одного календарного дня
type Day struct {
	Date  time.Time
	Label string
	Slots []Slot
}

// Response модель ответа с сеткой слотов
type Response struct {
	ResourceID  int64
	GeneratedAt time.Time
	Days        []Day
}
