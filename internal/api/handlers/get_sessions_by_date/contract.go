package get_sessions_by_date

import (
	"context"

	getSessions "github.com/m04kA/EVCharge-ReservationService/internal/usecase/get_sessions_by_date"
)

type GetSessionsUseCase interface {
	Execute(ctx context.Context, req *getSessions.Request) (*getSessions.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
