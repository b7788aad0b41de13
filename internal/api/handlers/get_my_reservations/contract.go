package get_my_reservations

import (
	"context"

	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	ListMine(ctx context.Context, req *models.OwnerRequest) ([]models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
