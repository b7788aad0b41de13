package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	// (или не принадлежит указанному владельцу)
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrOwnerRequired возвращается, когда не указан ни email, ни номер
	ErrOwnerRequired = errors.New("email or plate is required")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// Кто удалил бронирование
const (
	ActorUser  = "user"
	ActorAdmin = "admin"
)
