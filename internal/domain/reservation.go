package domain

import (
	"time"

	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// ReservationStatus статус бронирования
type ReservationStatus string

const (
	StatusConfirmed  ReservationStatus = "CONFIRMED"
	StatusInProgress ReservationStatus = "IN_PROGRESS"
	StatusCompleted  ReservationStatus = "COMPLETED"
	StatusCancelled  ReservationStatus = "CANCELLED"
)

// IsValid проверяет, что статус из известного набора
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Reservation бронирование зарядной сессии.
// После чтения из хранилища считается неизменяемым значением
type Reservation struct {
	ID              string
	SessionID       int64
	Plate           string // как ввел пользователь (обрезаны пробелы по краям)
	PlateNormalized string // без пробелов, в верхнем регистре
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Status          ReservationStatus
	ContactEmail    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation still occupies its slots
func (r *Reservation) IsActive() bool {
	return r.Status != StatusCancelled
}

// StartAt момент начала в часовом поясе бизнеса
func (r *Reservation) StartAt(loc *time.Location) time.Time {
	return atTime(r.Date, r.StartTime, loc)
}

// EndAt момент окончания в часовом поясе бизнеса
func (r *Reservation) EndAt(loc *time.Location) time.Time {
	return atTime(r.Date, r.EndTime, loc)
}

// DerivedStatus статус, который видит клиент: считается от текущего времени.
// Отмененное бронирование остается отмененным
func (r *Reservation) DerivedStatus(now time.Time, loc *time.Location) ReservationStatus {
	if r.Status == StatusCancelled {
		return StatusCancelled
	}

	start := r.StartAt(loc)
	end := r.EndAt(loc)
	switch {
	case now.Before(start):
		return StatusConfirmed
	case now.Before(end):
		return StatusInProgress
	default:
		return StatusCompleted
	}
}

// Overlaps проверяет строгое пересечение с интервалом [start, end) в тот же день.
// Касание границ пересечением не считается
func (r *Reservation) Overlaps(start, end types.TimeString) bool {
	return r.StartTime.IsBefore(end) && r.EndTime.IsAfter(start)
}

// ReservationsFilter фильтр поиска пересекающихся бронирований
type ReservationsFilter struct {
	Date            time.Time
	Start           types.TimeString
	End             types.TimeString
	SessionID       *int64  // только в этой сессии
	PlateNormalized *string // только этот номер
}

// UserFilter фильтр бронирований пользователя: email и/или номер
type UserFilter struct {
	Email           *string
	PlateNormalized *string
}

// IsEmpty true, если не задан ни email, ни номер
func (f UserFilter) IsEmpty() bool {
	return (f.Email == nil || *f.Email == "") && (f.PlateNormalized == nil || *f.PlateNormalized == "")
}

// ParseDate разбирает дату YYYY-MM-DD в полночь UTC
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

func atTime(date time.Time, t types.TimeString, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	minutes, err := t.Minutes()
	if err != nil {
		minutes = 0
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(time.Duration(minutes) * time.Minute)
}
