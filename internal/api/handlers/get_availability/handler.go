package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers"
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	getAvailability "github.com/m04kA/EVCharge-ReservationService/internal/usecase/get_availability"
)

const (
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidSessionID = "некорректный ID сессии"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/availability?date=YYYY-MM-DD&sessionId=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	sessionID, err := strconv.ParseInt(r.URL.Query().Get("sessionId"), 10, 64)
	if err != nil || sessionID <= 0 {
		h.logger.Warn("GET /availability - Invalid session ID: %q", r.URL.Query().Get("sessionId"))
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{Date: date, SessionID: sessionID})
	if err != nil {
		if errors.Is(err, getAvailability.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidSessionID)
			return
		}
		h.logger.Error("GET /availability - Failed to build window: session_id=%d, error=%v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
