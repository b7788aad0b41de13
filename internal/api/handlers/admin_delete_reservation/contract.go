package admin_delete_reservation

import "context"

type ReservationService interface {
	AdminDelete(ctx context.Context, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
