package create_reservation

import (
	"fmt"
	"strings"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
)

// validateRequest проверяет формат запроса. Порядок проверок: интервал, затем номер
func validateRequest(req *Request, hours domain.BusinessHours) error {
	if req.SessionID <= 0 {
		return fmt.Errorf("%w: sessionId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := hours.ValidateInterval(req.StartTime, req.EndTime); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := domain.ValidatePlate(req.Plate); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if req.ContactEmail != nil && len(strings.TrimSpace(*req.ContactEmail)) > domain.MaxEmailLength {
		return fmt.Errorf("%w: contactEmail is too long", ErrInvalidInput)
	}

	return nil
}
