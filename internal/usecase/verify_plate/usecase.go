package verify_plate

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// UseCase проверка номера перед созданием бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	metrics         Metrics
	hours           domain.BusinessHours
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	metrics Metrics,
	hours domain.BusinessHours,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		metrics:         metrics,
		hours:           hours,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute проверяет формат номера, а при заданном интервале ищет пересечения
// в той же сессии и у того же номера в любой сессии
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := domain.ValidatePlate(req.Plate); err != nil {
		uc.logger.Info("VerifyPlate: invalid plate %q: %v", req.Plate, err)
		return uc.invalid(MsgInvalidPlate), nil
	}

	if !req.hasInterval() {
		uc.metrics.PlateVerified(outcomeOK)
		return &Response{Valid: true, Message: MsgAvailable}, nil
	}

	date, start, end, err := uc.parseInterval(req)
	if err != nil {
		uc.logger.Info("VerifyPlate: invalid interval %s %s-%s: %v", req.Date, req.StartTime, req.EndTime, err)
		return uc.invalid(MsgInvalidInterval), nil
	}

	normalized := domain.NormalizePlate(req.Plate)

	if req.SessionID > 0 {
		sessionID := req.SessionID
		found, err := uc.reservationRepo.FindOverlapping(ctx, domain.ReservationsFilter{
			Date:      date,
			Start:     start,
			End:       end,
			SessionID: &sessionID,
		})
		if err != nil {
			uc.logger.Error("VerifyPlate: failed to check session overlap: %v", err)
			return nil, fmt.Errorf("%w: failed to check session overlap: %v", ErrInternal, err)
		}
		if len(found) > 0 {
			return uc.conflict(MsgSessionBusy, found[0]), nil
		}
	}

	found, err := uc.reservationRepo.FindOverlapping(ctx, domain.ReservationsFilter{
		Date:            date,
		Start:           start,
		End:             end,
		PlateNormalized: &normalized,
	})
	if err != nil {
		uc.logger.Error("VerifyPlate: failed to check plate overlap: %v", err)
		return nil, fmt.Errorf("%w: failed to check plate overlap: %v", ErrInternal, err)
	}
	if len(found) > 0 {
		return uc.conflict(MsgPlateBusy, found[0]), nil
	}

	uc.metrics.PlateVerified(outcomeOK)
	return &Response{Valid: true, Message: MsgAvailable}, nil
}

func (uc *UseCase) parseInterval(req *Request) (time.Time, types.TimeString, types.TimeString, error) {
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return time.Time{}, "", "", err
	}
	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return time.Time{}, "", "", err
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return time.Time{}, "", "", err
	}
	if err := uc.hours.ValidateInterval(start, end); err != nil {
		return time.Time{}, "", "", err
	}
	return date, start, end, nil
}

func (uc *UseCase) invalid(msg string) *Response {
	uc.metrics.PlateVerified(outcomeInvalid)
	return &Response{Valid: false, Conflict: false, Message: msg}
}

func (uc *UseCase) conflict(msg string, r *domain.Reservation) *Response {
	uc.metrics.PlateVerified(outcomeConflict)
	uc.logger.Info("VerifyPlate: conflict with reservation id=%s", r.ID)
	return &Response{
		Valid:       false,
		Conflict:    true,
		Message:     msg,
		Conflicting: r,
		Status:      r.DerivedStatus(uc.timeProvider.Now(), uc.location),
	}
}
