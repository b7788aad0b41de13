package create_reservation

import (
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	SessionID    int64
	Plate        string
	Date         time.Time // без времени
	StartTime    types.TimeString
	EndTime      types.TimeString
	ContactEmail *string
}

// Response созданное бронирование со статусом, который видит клиент
type Response struct {
	Reservation *domain.Reservation
	Status      domain.ReservationStatus
}
