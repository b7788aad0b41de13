package platerecognizer

import "errors"

var (
	// ErrEmptyImage возвращается, когда изображение пустое
	ErrEmptyImage = errors.New("platerecognizer client: image is required")

	// ErrUpstreamStatus возвращается, когда сервис распознавания ответил статусом >= 400
	ErrUpstreamStatus = errors.New("platerecognizer client: upstream error")

	// ErrTimeout возвращается, когда сервис не ответил вовремя
	ErrTimeout = errors.New("platerecognizer client: timeout")

	// ErrUnavailable возвращается, когда сервис недоступен
	ErrUnavailable = errors.New("platerecognizer client: service unreachable")

	// ErrNoPlate возвращается, когда в ответе нет распознанного номера
	ErrNoPlate = errors.New("platerecognizer client: no plate recognized")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("platerecognizer client: internal error")
)
