package reservations

import (
	"context"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/events"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	ListAll(ctx context.Context) ([]*domain.Reservation, error)
	ListForUser(ctx context.Context, filter domain.UserFilter) ([]*domain.Reservation, error)
	Delete(ctx context.Context, id string) error
	DeleteForUser(ctx context.Context, id string, filter domain.UserFilter) error
}

// SessionRepository интерфейс репозитория зарядных сессий
type SessionRepository interface {
	List(ctx context.Context) ([]domain.ChargingSession, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события о бронированиях
type EventPublisher interface {
	Publish(ctx context.Context, event events.ReservationEvent)
}

// Metrics счетчик удалений
type Metrics interface {
	ReservationDeleted(actor string)
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
