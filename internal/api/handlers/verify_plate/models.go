package verify_plate

import (
	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations/models"
	verifyPlate "github.com/m04kA/EVCharge-ReservationService/internal/usecase/verify_plate"
)

// VerifyRequest HTTP request model
type VerifyRequest struct {
	Plate     string `json:"plate"`
	Date      string `json:"date,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	SessionID int64  `json:"sessionId,omitempty"`
}

// VerifyResponse HTTP response model
type VerifyResponse struct {
	Valid                  bool                        `json:"valid"`
	Conflict               bool                        `json:"conflict"`
	Message                string                      `json:"message"`
	ConflictingReservation *models.ReservationResponse `json:"conflictingReservation,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *VerifyRequest) ToUseCaseRequest() *verifyPlate.Request {
	return &verifyPlate.Request{
		Plate:     r.Plate,
		Date:      r.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		SessionID: r.SessionID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *verifyPlate.Response) *VerifyResponse {
	return &VerifyResponse{
		Valid:                  resp.Valid,
		Conflict:               resp.Conflict,
		Message:                resp.Message,
		ConflictingReservation: models.FromDomainReservation(resp.Conflicting, resp.Status),
	}
}
