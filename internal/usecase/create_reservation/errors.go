package create_reservation

import "errors"

var (
	// ErrSessionNotFound возвращается, когда зарядная сессия не найдена
	ErrSessionNotFound = errors.New("create_reservation: session not found")

	// ErrSessionConflict возвращается, когда интервал пересекается с бронированием этой сессии
	ErrSessionConflict = errors.New("create_reservation: session already reserved for this time")

	// ErrPlateConflict возвращается, когда у номера уже есть пересекающееся бронирование
	ErrPlateConflict = errors.New("create_reservation: plate already has an overlapping reservation")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

// Причины отказа для метрик
const (
	conflictSession = "session"
	conflictPlate   = "plate"
	conflictUnique  = "unique"
)
