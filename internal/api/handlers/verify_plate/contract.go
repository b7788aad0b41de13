package verify_plate

import (
	"context"

	verifyPlate "github.com/m04kA/EVCharge-ReservationService/internal/usecase/verify_plate"
)

type VerifyPlateUseCase interface {
	Execute(ctx context.Context, req *verifyPlate.Request) (*verifyPlate.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
