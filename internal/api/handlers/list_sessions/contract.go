package list_sessions

import (
	"context"

	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	ListSessions(ctx context.Context) ([]models.SessionReservations, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
