package get_availability

import (
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/availability"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// Request модель запроса окна доступности
type Request struct {
	Date      time.Time
	SessionID int64
}

// Response полоса на 14 дней и слоты выбранной даты
type Response struct {
	Center    time.Time
	SessionID int64
	Strip     []availability.StripEntry
	Slots     []SlotState
}

// SlotState слот выбранной даты
type SlotState struct {
	Start    types.TimeString
	Occupied bool
}
