package verify_plate

import (
	"net/http"

	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
)

type Handler struct {
	useCase VerifyPlateUseCase
	logger  Logger
}

func NewHandler(useCase VerifyPlateUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/plates/verify
// Конфликт и некорректный ввод возвращаются со статусом 200
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /plates/verify - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		h.logger.Error("POST /plates/verify - Failed to verify plate: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
