package booking

import (
	"errors"

	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/reservationapi"
)

var (
	// ErrWrongStep операция недоступна на текущем шаге
	ErrWrongStep = errors.New("booking: operation is not allowed at the current step")

	// ErrInvalidInput не заполнены обязательные поля
	ErrInvalidInput = errors.New("booking: invalid input")

	// ErrInvalidPlate номер не прошел локальную проверку
	ErrInvalidPlate = errors.New("booking: invalid plate")

	// ErrInvalidDuration длительность не кратна шагу сетки или больше рабочего дня
	ErrInvalidDuration = errors.New("booking: invalid duration")

	// ErrSlotUnavailable слот вне сетки, не укладывается до закрытия или занят
	ErrSlotUnavailable = errors.New("booking: slot is unavailable")

	// ErrIncompleteSelection не выбраны дата, сессия или время начала
	ErrIncompleteSelection = errors.New("booking: selection is incomplete")

	// ErrScannerBusy сканер уже открыт
	ErrScannerBusy = errors.New("booking: scanner is already in use")

	// ErrNotLoggedIn нет токена администратора
	ErrNotLoggedIn = errors.New("booking: not logged in")

	// ErrRequestFailed сетевая операция завершилась ошибкой
	ErrRequestFailed = errors.New("booking: request failed")
)

// Сообщения для пользователя
const (
	msgInvalidCredentials = "введите email и пароль"
	msgInvalidPlate       = "некорректный номер автомобиля"
	msgInvalidDuration    = "длительность должна быть кратна 30 минутам и укладываться в рабочий день"
	msgSlotUnavailable    = "выбранное время недоступно"
	msgIncomplete         = "выберите дату, сессию и время начала"
)

// messageOf текст ошибки для показа: сообщение сервера, если оно есть
func messageOf(err error) string {
	var apiErr *reservationapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
