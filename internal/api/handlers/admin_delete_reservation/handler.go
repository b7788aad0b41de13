package admin_delete_reservation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers"
	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations"
	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations/models"
)

const (
	msgNotFound = "бронирование не найдено"
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

// Handle DELETE /api/admin/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["reservationId"]

	if err := h.service.AdminDelete(r.Context(), id); err != nil {
		if errors.Is(err, reservations.ErrReservationNotFound) {
			h.logger.Warn("DELETE /admin/reservations/{id} - Reservation not found: id=%s", id)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /admin/reservations/{id} - Failed to delete reservation: id=%s, error=%v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/reservations/{id} - Reservation deleted successfully: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, models.DeleteResponse{OK: true})
}
