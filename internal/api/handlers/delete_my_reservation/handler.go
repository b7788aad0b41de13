package delete_my_reservation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers"
	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations"
	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations/models"
)

const (
	msgOwnerRequired = "нужно указать email или номер автомобиля"
	msgNotFound      = "бронирование не найдено"
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

// Handle DELETE /api/reservations/{reservationId}?email=...&plate=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["reservationId"]

	serviceReq := &models.OwnerRequest{
		Email: r.URL.Query().Get("email"),
		Plate: r.URL.Query().Get("plate"),
	}

	err := h.service.DeleteMine(r.Context(), id, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrOwnerRequired):
			h.logger.Warn("DELETE /reservations/{id} - Owner is not specified: id=%s", id)
			handlers.RespondBadRequest(w, msgOwnerRequired)

		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("DELETE /reservations/{id} - Reservation not found: id=%s", id)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /reservations/{id} - Failed to delete reservation: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /reservations/{id} - Reservation deleted successfully: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, models.DeleteResponse{OK: true})
}
