package get_my_reservations

import (
	"errors"
	"net/http"

	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers"
	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations"
	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations/models"
)

const (
	msgOwnerRequired = "нужно указать email или номер автомобиля"
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

// Handle GET /api/reservations/my?email=...&plate=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceReq := &models.OwnerRequest{
		Email: r.URL.Query().Get("email"),
		Plate: r.URL.Query().Get("plate"),
	}

	result, err := h.service.ListMine(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, reservations.ErrOwnerRequired) {
			h.logger.Warn("GET /reservations/my - Owner is not specified")
			handlers.RespondBadRequest(w, msgOwnerRequired)
			return
		}
		h.logger.Error("GET /reservations/my - Failed to get reservations: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
