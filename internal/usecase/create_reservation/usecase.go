package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/events"
	reservationRepo "github.com/m04kA/EVCharge-ReservationService/internal/infra/storage/reservation"
	sessionRepo "github.com/m04kA/EVCharge-ReservationService/internal/infra/storage/session"
)

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	sessionRepo     SessionRepository
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	hours           domain.BusinessHours
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	sessionRepo SessionRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	hours domain.BusinessHours,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		sessionRepo:     sessionRepo,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		hours:           hours,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка пересечений и вставка идут в одной сериализуемой транзакции
// с блокировкой строки сессии
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: session=%d, plate=%q, date=%s, %s-%s",
		req.SessionID, req.Plate, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.hours); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	plate := strings.TrimSpace(req.Plate)
	normalized := domain.NormalizePlate(plate)

	var result *domain.Reservation

	// 2. Проверки и вставка в транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Блокируем сессию: параллельные бронирования одной сессии выстраиваются в очередь
		session, err := uc.sessionRepo.GetByID(txCtx, req.SessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				uc.logger.Warn("CreateReservation: session id=%d not found", req.SessionID)
				return ErrSessionNotFound
			}
			return fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
		}

		// 2.2. Пересечение в той же сессии
		sameSession, err := uc.reservationRepo.FindOverlapping(txCtx, domain.ReservationsFilter{
			Date:      req.Date,
			Start:     req.StartTime,
			End:       req.EndTime,
			SessionID: &session.ID,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to check session overlap: %v", ErrInternal, err)
		}
		if len(sameSession) > 0 {
			uc.metrics.ReservationConflict(conflictSession)
			uc.logger.Warn("CreateReservation: session id=%d busy, conflicting reservation id=%s",
				session.ID, sameSession[0].ID)
			return ErrSessionConflict
		}

		// 2.3. У номера не должно быть пересекающихся бронирований ни в одной сессии
		samePlate, err := uc.reservationRepo.FindOverlapping(txCtx, domain.ReservationsFilter{
			Date:            req.Date,
			Start:           req.StartTime,
			End:             req.EndTime,
			PlateNormalized: &normalized,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to check plate overlap: %v", ErrInternal, err)
		}
		if len(samePlate) > 0 {
			uc.metrics.ReservationConflict(conflictPlate)
			uc.logger.Warn("CreateReservation: plate %s already reserved, reservation id=%s",
				normalized, samePlate[0].ID)
			return ErrPlateConflict
		}

		// 2.4. Создаем бронирование
		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			SessionID:       session.ID,
			Plate:           plate,
			PlateNormalized: normalized,
			Date:            req.Date,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			Status:          domain.StatusConfirmed,
			ContactEmail:    domain.NormalizeEmail(req.ContactEmail),
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrDuplicateSlot) {
				uc.metrics.ReservationConflict(conflictUnique)
				uc.logger.Warn("CreateReservation: unique violation: %v", err)
				return ErrSessionConflict
			}
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionConflict) &&
			!errors.Is(err, ErrPlateConflict) && !errors.Is(err, ErrInternal) {
			err = fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateReservation: %v", err)
		}
		return nil, err
	}

	uc.metrics.ReservationCreated()
	uc.publisher.Publish(ctx, events.NewReservationEvent(events.TypeReservationCreated, "user", result))

	uc.logger.Info("CreateReservation: successfully created reservation id=%s", result.ID)

	return &Response{
		Reservation: result,
		Status:      result.DerivedStatus(uc.timeProvider.Now(), uc.location),
	}, nil
}
