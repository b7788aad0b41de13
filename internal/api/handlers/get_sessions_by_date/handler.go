package get_sessions_by_date

import (
	"net/http"

	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers"
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations/models"
	getSessions "github.com/m04kA/EVCharge-ReservationService/internal/usecase/get_sessions_by_date"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
)

// Handler отдает бронирования по сессиям на дату.
// Один и тот же обработчик обслуживает публичный и административный маршруты
type Handler struct {
	useCase GetSessionsUseCase
	logger  Logger
}

func NewHandler(useCase GetSessionsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/reservations/by-session?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET %s - Invalid date %q: %v", r.URL.Path, dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getSessions.Request{Date: date})
	if err != nil {
		h.logger.Error("GET %s - Failed to get sessions: date=%s, error=%v", r.URL.Path, dateStr, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, models.SessionsResponse{
		Sessions: models.FromDomainBuckets(result.Sessions),
	})
}
