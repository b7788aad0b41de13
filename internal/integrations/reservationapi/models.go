package reservationapi

import (
	"fmt"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// Reservation бронирование в формате REST API
type Reservation struct {
	ID           string  `json:"id"`
	SessionID    int64   `json:"sessionId"`
	Plate        string  `json:"plate"`
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	Status       string  `json:"status"`
	ContactEmail *string `json:"contactEmail,omitempty"`
	CreatedAt    string  `json:"createdAt,omitempty"`
}

// SessionBucket бронирования сессии на дату
type SessionBucket struct {
	SessionID    int64         `json:"sessionId"`
	Name         string        `json:"name"`
	Reservations []Reservation `json:"reservations"`
}

// SessionsResponse ответ /reservations/by-session
type SessionsResponse struct {
	Sessions []SessionBucket `json:"sessions"`
}

// VerifyRequest запрос проверки номера и интервала
type VerifyRequest struct {
	Plate     string `json:"plate"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	SessionID int64  `json:"sessionId"`
}

// VerifyResponse результат проверки; конфликт не является ошибкой
type VerifyResponse struct {
	Valid                  bool         `json:"valid"`
	Conflict               bool         `json:"conflict"`
	Message                string       `json:"message"`
	ConflictingReservation *Reservation `json:"conflictingReservation,omitempty"`
}

// CreateRequest запрос создания бронирования
type CreateRequest struct {
	SessionID    int64   `json:"sessionId"`
	Plate        string  `json:"plate"`
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	ContactEmail *string `json:"contactEmail,omitempty"`
}

// Credentials логин и пароль
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Account учетная запись в ответе логина
type Account struct {
	Email string `json:"email"`
}

// AdminLoginResponse ответ /admin/login
type AdminLoginResponse struct {
	Token string  `json:"token"`
	Admin Account `json:"admin"`
}

// UserLoginResponse ответ /user/login
type UserLoginResponse struct {
	Token string  `json:"token"`
	User  Account `json:"user"`
}

// OwnerFilter кому принадлежит бронирование: email и/или номер
type OwnerFilter struct {
	Email string
	Plate string
}

type okResponse struct {
	OK bool `json:"ok"`
}

// errorBody возможные поля сообщения об ошибке
type errorBody struct {
	Detail  interface{} `json:"detail"`
	Message string      `json:"message"`
}

// ToDomain переводит бронирование в доменную модель
func (r Reservation) ToDomain() (*domain.Reservation, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q: %v", ErrInvalidResponse, r.Date, err)
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime %q: %v", ErrInvalidResponse, r.StartTime, err)
	}
	// конец может быть меткой за пределами суток, формат не проверяем строго
	end := types.TimeString(r.EndTime)

	res := &domain.Reservation{
		ID:              r.ID,
		SessionID:       r.SessionID,
		Plate:           r.Plate,
		PlateNormalized: domain.NormalizePlate(r.Plate),
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		Status:          domain.ReservationStatus(r.Status),
		ContactEmail:    r.ContactEmail,
	}
	if r.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			res.CreatedAt = t
		}
	}
	return res, nil
}

// ToDomain переводит бакеты ответа в доменные
func (s SessionsResponse) ToDomain() ([]domain.SessionBucket, error) {
	buckets := make([]domain.SessionBucket, 0, len(s.Sessions))
	for _, b := range s.Sessions {
		bucket := domain.SessionBucket{
			SessionID:    b.SessionID,
			Name:         b.Name,
			Reservations: make([]*domain.Reservation, 0, len(b.Reservations)),
		}
		for _, r := range b.Reservations {
			res, err := r.ToDomain()
			if err != nil {
				return nil, err
			}
			bucket.Reservations = append(bucket.Reservations, res)
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}
