package get_sessions_by_date

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
)

// UseCase бронирования на дату, сгруппированные по сессиям
type UseCase struct {
	reservationRepo ReservationRepository
	sessionRepo     SessionRepository
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	sessionRepo SessionRepository,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		sessionRepo:     sessionRepo,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute возвращает по бакету на каждую сессию, включая сессии без бронирований
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	buckets, err := uc.SessionsByDate(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	return &Response{Date: req.Date, Sessions: buckets}, nil
}

// SessionsByDate собирает бакеты сессий на дату.
// Позволяет использовать use case как источник данных для окна доступности
func (uc *UseCase) SessionsByDate(ctx context.Context, date time.Time) ([]domain.SessionBucket, error) {
	sessions, err := uc.sessionRepo.List(ctx)
	if err != nil {
		uc.logger.Error("GetSessionsByDate: failed to list sessions: %v", err)
		return nil, fmt.Errorf("%w: failed to list sessions: %v", ErrInternal, err)
	}

	reservations, err := uc.reservationRepo.ListByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetSessionsByDate: failed to list reservations for %s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to list reservations: %v", ErrInternal, err)
	}

	return groupBySession(sessions, reservations, uc.timeProvider.Now(), uc.location), nil
}

// groupBySession раскладывает бронирования по сессиям, сохраняя порядок выборки.
// Каждое бронирование копируется с производным статусом
func groupBySession(
	sessions []domain.ChargingSession,
	reservations []*domain.Reservation,
	now time.Time,
	loc *time.Location,
) []domain.SessionBucket {
	index := make(map[int64]int, len(sessions))
	buckets := make([]domain.SessionBucket, len(sessions))
	for i, s := range sessions {
		index[s.ID] = i
		buckets[i] = domain.SessionBucket{
			SessionID:    s.ID,
			Name:         s.Name,
			Reservations: []*domain.Reservation{},
		}
	}

	for _, r := range reservations {
		i, ok := index[r.SessionID]
		if !ok {
			continue
		}
		view := *r
		view.Status = r.DerivedStatus(now, loc)
		buckets[i].Reservations = append(buckets[i].Reservations, &view)
	}

	return buckets
}
