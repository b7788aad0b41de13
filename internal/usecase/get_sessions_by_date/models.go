package get_sessions_by_date

import (
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
)

// Request модель запроса
type Request struct {
	Date time.Time // без времени
}

// Response бронирования всех сессий на дату.
// Статусы бронирований уже пересчитаны от текущего времени
type Response struct {
	Date     time.Time
	Sessions []domain.SessionBucket
}
