package recognize_plate

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/platerecognizer"
)

const (
	maxImageBytes = 10 << 20

	msgImageRequired = "требуется файл изображения"
	msgUpstreamError = "ошибка сервиса распознавания номеров"
	msgTimeout       = "сервис распознавания номеров не ответил вовремя"
	msgUnavailable   = "сервис распознавания номеров недоступен"
)

type Handler struct {
	recognizer PlateRecognizer
	logger     Logger
}

func NewHandler(recognizer PlateRecognizer, logger Logger) *Handler {
	return &Handler{
		recognizer: recognizer,
		logger:     logger,
	}
}

// Handle POST /api/license-plates (multipart, поле image)
// Ответ сервиса распознавания передается клиенту без изменений
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		h.logger.Warn("POST /license-plates - Image is missing: %v", err)
		handlers.RespondBadRequest(w, msgImageRequired)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Warn("POST /license-plates - Failed to read image: %v", err)
		handlers.RespondBadRequest(w, msgImageRequired)
		return
	}

	result, err := h.recognizer.Recognize(r.Context(), platerecognizer.Image{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		switch {
		case errors.Is(err, platerecognizer.ErrEmptyImage):
			handlers.RespondBadRequest(w, msgImageRequired)

		case errors.Is(err, platerecognizer.ErrTimeout):
			h.logger.Warn("POST /license-plates - Recognizer timeout: %v", err)
			handlers.RespondError(w, http.StatusGatewayTimeout, msgTimeout)

		case errors.Is(err, platerecognizer.ErrUpstreamStatus):
			h.logger.Warn("POST /license-plates - Recognizer error: %v", err)
			handlers.RespondError(w, http.StatusBadGateway, msgUpstreamError)

		case errors.Is(err, platerecognizer.ErrUnavailable):
			h.logger.Error("POST /license-plates - Recognizer unreachable: %v", err)
			handlers.RespondError(w, http.StatusBadGateway, msgUnavailable)

		default:
			h.logger.Error("POST /license-plates - Failed to recognize plate: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	for k, v := range result.Headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", result.ContentType)
	w.WriteHeader(result.StatusCode)
	_, _ = w.Write(result.Body)
}
