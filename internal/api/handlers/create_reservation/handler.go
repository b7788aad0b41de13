package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers"
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations/models"
	createReservation "github.com/m04kA/EVCharge-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgSessionNotFound    = "сессия не найдена"
	msgSessionConflict    = "выбранное время в этой сессии уже занято"
	msgPlateConflict      = "этот автомобиль уже забронирован на пересекающееся время"
	msgEndBeforeStart     = "время окончания должно быть позже времени начала"
	msgNotAligned         = "бронирование возможно только с шагом 30 минут"
	msgOutsideHours       = "начало бронирования вне рабочих часов"
	msgEndAfterClose      = "окончание бронирования позже закрытия"
	msgInvalidPlate       = "некорректный номер автомобиля"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrSessionNotFound):
			h.logger.Warn("POST /reservations - Session not found: session_id=%d", req.SessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, createReservation.ErrSessionConflict):
			h.logger.Warn("POST /reservations - Session busy: session_id=%d, %s %s-%s",
				req.SessionID, req.Date, req.StartTime, req.EndTime)
			handlers.RespondConflict(w, msgSessionConflict)

		case errors.Is(err, createReservation.ErrPlateConflict):
			h.logger.Warn("POST /reservations - Plate busy: plate=%q", req.Plate)
			handlers.RespondConflict(w, msgPlateConflict)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, invalidInputMessage(err))

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: session_id=%d, error=%v",
				req.SessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: id=%s, session_id=%d",
		result.Reservation.ID, result.Reservation.SessionID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainReservation(result.Reservation, result.Status))
}

func invalidInputMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEndBeforeStart):
		return msgEndBeforeStart
	case errors.Is(err, domain.ErrNotAligned):
		return msgNotAligned
	case errors.Is(err, domain.ErrOutsideBusinessHours):
		return msgOutsideHours
	case errors.Is(err, domain.ErrEndAfterClose):
		return msgEndAfterClose
	case errors.Is(err, domain.ErrPlateTooShort), errors.Is(err, domain.ErrPlateTooLong):
		return msgInvalidPlate
	default:
		return msgInvalidInput
	}
}
