package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/events"
	reservationRepo "github.com/m04kA/EVCharge-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations/models"
)

// Service сервис для работы с бронированиями пользователей и администратора
type Service struct {
	reservationRepo ReservationRepository
	sessionRepo     SessionRepository
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	sessionRepo SessionRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		sessionRepo:     sessionRepo,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// ListSessions все сессии со всеми бронированиями, по времени начала
func (s *Service) ListSessions(ctx context.Context) ([]models.SessionReservations, error) {
	var (
		sessions []domain.ChargingSession
		all      []*domain.Reservation
	)

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		if sessions, err = s.sessionRepo.List(txCtx); err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if all, err = s.reservationRepo.ListAll(txCtx); err != nil {
			return fmt.Errorf("list reservations: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("ListSessions: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListSessions - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	result := make([]models.SessionReservations, 0, len(sessions))
	for _, session := range sessions {
		item := models.SessionReservations{
			SessionID:    session.ID,
			Name:         session.Name,
			Reservations: []models.ReservationResponse{},
		}
		for _, r := range all {
			if r.SessionID == session.ID {
				item.Reservations = append(item.Reservations, *models.FromDomainReservation(r, r.DerivedStatus(now, s.location)))
			}
		}
		result = append(result, item)
	}

	return result, nil
}

// ListMine бронирования владельца, сначала новые
func (s *Service) ListMine(ctx context.Context, req *models.OwnerRequest) ([]models.ReservationResponse, error) {
	filter := req.ToDomainFilter()
	if filter.IsEmpty() {
		return nil, ErrOwnerRequired
	}

	list, err := s.reservationRepo.ListForUser(ctx, filter)
	if err != nil {
		s.logger.Error("ListMine: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListMine - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	result := make([]models.ReservationResponse, 0, len(list))
	for _, r := range list {
		result = append(result, *models.FromDomainReservation(r, r.DerivedStatus(now, s.location)))
	}

	s.logger.Info("ListMine: found %d reservations", len(result))
	return result, nil
}

// DeleteMine удаляет бронирование, если оно принадлежит владельцу.
// Чужое и несуществующее бронирование неразличимы для вызывающего
func (s *Service) DeleteMine(ctx context.Context, id string, req *models.OwnerRequest) error {
	filter := req.ToDomainFilter()
	if filter.IsEmpty() {
		return ErrOwnerRequired
	}

	var deleted *domain.Reservation
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.reservationRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.reservationRepo.DeleteForUser(txCtx, id, filter); err != nil {
			return err
		}
		deleted = res
		return nil
	})
	if err != nil {
		return s.mapDeleteError("DeleteMine", id, err)
	}

	s.afterDelete(ctx, ActorUser, deleted)
	return nil
}

// AdminDelete удаляет любое бронирование
func (s *Service) AdminDelete(ctx context.Context, id string) error {
	var deleted *domain.Reservation
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.reservationRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.reservationRepo.Delete(txCtx, id); err != nil {
			return err
		}
		deleted = res
		return nil
	})
	if err != nil {
		return s.mapDeleteError("AdminDelete", id, err)
	}

	s.afterDelete(ctx, ActorAdmin, deleted)
	return nil
}

func (s *Service) mapDeleteError(op, id string, err error) error {
	if errors.Is(err, reservationRepo.ErrReservationNotFound) {
		s.logger.Warn("%s: reservation id=%s not found", op, id)
		return ErrReservationNotFound
	}
	s.logger.Error("%s: repository error for reservation id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func (s *Service) afterDelete(ctx context.Context, actor string, r *domain.Reservation) {
	s.metrics.ReservationDeleted(actor)
	s.publisher.Publish(ctx, events.NewReservationEvent(events.TypeReservationDeleted, actor, r))
	s.logger.Info("Delete: reservation id=%s deleted by %s", r.ID, actor)
}
