package models

import (
	"strings"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
)

// Request модели

// OwnerRequest владелец бронирования: email и/или номер
type OwnerRequest struct {
	Email string `json:"email"`
	Plate string `json:"plate"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *OwnerRequest) ToDomainFilter() domain.UserFilter {
	var filter domain.UserFilter
	if email := strings.TrimSpace(r.Email); email != "" {
		filter.Email = &email
	}
	if plate := domain.NormalizePlate(r.Plate); plate != "" {
		filter.PlateNormalized = &plate
	}
	return filter
}

// Response модели

// ReservationResponse бронирование в формате API
type ReservationResponse struct {
	ID           string  `json:"id"`
	SessionID    int64   `json:"sessionId"`
	Plate        string  `json:"plate"`
	Date         string  `json:"date"`      // "2025-10-15"
	StartTime    string  `json:"startTime"` // "10:00"
	EndTime      string  `json:"endTime"`   // "11:30"
	Status       string  `json:"status"`
	ContactEmail *string `json:"contactEmail"`
}

// SessionReservations сессия и ее бронирования
type SessionReservations struct {
	SessionID    int64                 `json:"sessionId"`
	Name         string                `json:"name"`
	Reservations []ReservationResponse `json:"reservations"`
}

// SessionsResponse ответ со списком сессий
type SessionsResponse struct {
	Sessions []SessionReservations `json:"sessions"`
}

// DeleteResponse ответ на удаление
type DeleteResponse struct {
	OK bool `json:"ok"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO со статусом status
func FromDomainReservation(r *domain.Reservation, status domain.ReservationStatus) *ReservationResponse {
	if r == nil {
		return nil
	}
	return &ReservationResponse{
		ID:           r.ID,
		SessionID:    r.SessionID,
		Plate:        r.Plate,
		Date:         r.Date.Format(domain.DateFormat),
		StartTime:    r.StartTime.String(),
		EndTime:      r.EndTime.String(),
		Status:       string(status),
		ContactEmail: r.ContactEmail,
	}
}

// FromDomainReservationList конвертирует список; статусы берутся из моделей как есть
func FromDomainReservationList(list []*domain.Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, 0, len(list))
	for _, r := range list {
		resp = append(resp, *FromDomainReservation(r, r.Status))
	}
	return resp
}

// FromDomainBuckets конвертирует бакеты сессий
func FromDomainBuckets(buckets []domain.SessionBucket) []SessionReservations {
	resp := make([]SessionReservations, 0, len(buckets))
	for _, b := range buckets {
		resp = append(resp, SessionReservations{
			SessionID:    b.SessionID,
			Name:         b.Name,
			Reservations: FromDomainReservationList(b.Reservations),
		})
	}
	return resp
}
