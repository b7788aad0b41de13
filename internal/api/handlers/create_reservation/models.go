package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	createReservation "github.com/m04kA/EVCharge-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	SessionID    int64   `json:"sessionId"`
	Plate        string  `json:"plate"`
	Date         string  `json:"date"`      // "2025-10-15"
	StartTime    string  `json:"startTime"` // "10:00"
	EndTime      string  `json:"endTime"`   // "11:30"
	ContactEmail *string `json:"contactEmail,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest() (*createReservation.Request, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %v", errInvalidTime, err)
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime: %v", errInvalidTime, err)
	}

	return &createReservation.Request{
		SessionID:    r.SessionID,
		Plate:        r.Plate,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		ContactEmail: r.ContactEmail,
	}, nil
}
