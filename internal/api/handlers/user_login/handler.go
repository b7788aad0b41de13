package user_login

import (
	"errors"
	"net/http"

	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers"
	"github.com/m04kA/EVCharge-ReservationService/internal/service/auth"
	"github.com/m04kA/EVCharge-ReservationService/internal/service/auth/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgCredentialsMissing = "введите email и пароль"
)

type Handler struct {
	service AuthService
	logger  Logger
}

func NewHandler(service AuthService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/user/login
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /user/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UserLogin(&req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgCredentialsMissing)
			return
		}
		h.logger.Error("POST /user/login - Failed to login: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /user/login - User %s logged in", result.User.Email)
	handlers.RespondJSON(w, http.StatusOK, result)
}
