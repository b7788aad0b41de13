package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/availability"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// WindowBuilder строит окно доступности (*availability.Builder)
type WindowBuilder interface {
	Build(ctx context.Context, center time.Time, sessionID int64) (*availability.Window, error)
	Slots() []types.TimeString
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
