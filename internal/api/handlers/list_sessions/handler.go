package list_sessions

import (
	"net/http"

	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListSessions(r.Context())
	if err != nil {
		h.logger.Error("GET /sessions - Failed to list sessions: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /sessions - Sessions retrieved successfully: count=%d", len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
