package delete_my_reservation

import (
	"context"

	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	DeleteMine(ctx context.Context, id string, req *models.OwnerRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
