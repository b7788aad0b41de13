package get_sessions_by_date

import (
	"context"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error)
}

// SessionRepository интерфейс репозитория зарядных сессий
type SessionRepository interface {
	List(ctx context.Context) ([]domain.ChargingSession, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
