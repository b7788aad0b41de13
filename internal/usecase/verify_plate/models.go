package verify_plate

import "github.com/m04kA/EVCharge-ReservationService/internal/domain"

// Request проверка номера и (необязательно) интервала.
// Дата и время приходят строками: ошибки формата отражаются в ответе, а не ошибкой
type Request struct {
	Plate     string
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
	EndTime   string // HH:MM
	SessionID int64  // 0 - сессия не выбрана
}

// Response результат проверки. Conflict=true только при реальном пересечении
type Response struct {
	Valid       bool
	Conflict    bool
	Message     string
	Conflicting *domain.Reservation
	Status      domain.ReservationStatus // производный статус Conflicting
}

func (r *Request) hasInterval() bool {
	return r.Date != "" && r.StartTime != "" && r.EndTime != ""
}
