package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/events"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	FindOverlapping(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
}

// SessionRepository интерфейс репозитория зарядных сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ChargingSession, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события о бронированиях
type EventPublisher interface {
	Publish(ctx context.Context, event events.ReservationEvent)
}

// Metrics счетчики бронирований
type Metrics interface {
	ReservationCreated()
	ReservationConflict(reason string)
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
