package get_availability

import (
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	getAvailability "github.com/m04kA/EVCharge-ReservationService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date      string       `json:"date"`
	SessionID int64        `json:"sessionId"`
	Strip     []StripEntry `json:"strip"`
	Slots     []Slot       `json:"slots"`
}

// StripEntry день полосы доступности
type StripEntry struct {
	Date        string `json:"date"`
	Label       string `json:"label"`
	FreePercent int    `json:"freePercent"`
	Tier        string `json:"tier"`
}

// Slot слот выбранной даты
type Slot struct {
	StartTime string `json:"startTime"`
	Occupied  bool   `json:"occupied"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		Date:      resp.Center.Format(domain.DateFormat),
		SessionID: resp.SessionID,
		Strip:     make([]StripEntry, 0, len(resp.Strip)),
		Slots:     make([]Slot, 0, len(resp.Slots)),
	}
	for _, e := range resp.Strip {
		out.Strip = append(out.Strip, StripEntry{
			Date:        e.Date.Format(domain.DateFormat),
			Label:       e.Label,
			FreePercent: e.FreePercent,
			Tier:        string(e.Tier),
		})
	}
	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, Slot{StartTime: s.Start.String(), Occupied: s.Occupied})
	}
	return out
}
