package booking

import (
	"context"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/availability"
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/platerecognizer"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/reservationapi"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// ReservationAPI пользовательские операции REST сервиса бронирований
type ReservationAPI interface {
	UserLogin(ctx context.Context, creds reservationapi.Credentials) (*reservationapi.UserLoginResponse, error)
	Verify(ctx context.Context, req reservationapi.VerifyRequest) (*reservationapi.VerifyResponse, error)
	CreateReservation(ctx context.Context, req reservationapi.CreateRequest) (*reservationapi.Reservation, error)
	MyReservations(ctx context.Context, owner reservationapi.OwnerFilter) ([]reservationapi.Reservation, error)
	DeleteReservation(ctx context.Context, id string, owner reservationapi.OwnerFilter) error
}

// AdminAPI административные операции REST сервиса
type AdminAPI interface {
	AdminLogin(ctx context.Context, creds reservationapi.Credentials) (*reservationapi.AdminLoginResponse, error)
	AdminSessionsByDate(ctx context.Context, token string, date time.Time) ([]domain.SessionBucket, error)
	AdminDelete(ctx context.Context, token, id string) error
}

// WindowBuilder строит полосу доступности вокруг даты
type WindowBuilder interface {
	Build(ctx context.Context, center time.Time, sessionID int64) (*availability.Window, error)
	Slots() []types.TimeString
}

// PlateRecognizer распознает номер на снимке
type PlateRecognizer interface {
	Recognize(ctx context.Context, img platerecognizer.Image) (*platerecognizer.Result, error)
}

// Scanner выдает устройство захвата (камеру). Устройство обязательно закрывается
type Scanner interface {
	Open(ctx context.Context) (Device, error)
}

// Device открытое устройство захвата
type Device interface {
	Capture(ctx context.Context) (platerecognizer.Image, error)
	Close() error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
