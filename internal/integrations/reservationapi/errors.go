package reservationapi

import (
	"errors"
	"fmt"
)

var (
	// ErrInternal возвращается при ошибках формирования запроса
	ErrInternal = errors.New("reservationapi client: internal error")

	// ErrUnavailable возвращается, когда сервер недоступен
	ErrUnavailable = errors.New("reservationapi client: service unavailable")

	// ErrInvalidResponse возвращается, когда ответ не удалось разобрать
	ErrInvalidResponse = errors.New("reservationapi client: invalid response")

	// ErrNotAuthorized возвращается, когда у клиента нет токена администратора
	ErrNotAuthorized = errors.New("reservationapi client: admin token is not set")
)

// APIError ответ сервера со статусом >= 400
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reservationapi: %s (status %d)", e.Message, e.Status)
}

// StatusOf возвращает HTTP статус из APIError или 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
