package get_availability

import (
	"context"
	"fmt"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
)

// UseCase окно доступности сессии, рассчитанное на сервере
type UseCase struct {
	builder WindowBuilder
	logger  Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(builder WindowBuilder, logger Logger) *UseCase {
	return &UseCase{builder: builder, logger: logger}
}

// Execute строит полосу вокруг req.Date и отмечает занятые слоты центральной даты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.SessionID <= 0 {
		return nil, fmt.Errorf("%w: sessionId must be positive", ErrInvalidInput)
	}

	win, err := uc.builder.Build(ctx, req.Date, req.SessionID)
	if err != nil {
		uc.logger.Error("GetAvailability: session=%d, date=%s: %v",
			req.SessionID, req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	all := uc.builder.Slots()
	slots := make([]SlotState, 0, len(all))
	for _, s := range all {
		slots = append(slots, SlotState{Start: s, Occupied: win.Occupied.Has(s)})
	}

	return &Response{
		Center:    win.Center,
		SessionID: win.SessionID,
		Strip:     win.Entries,
		Slots:     slots,
	}, nil
}
