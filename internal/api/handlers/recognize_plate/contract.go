package recognize_plate

import (
	"context"

	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/platerecognizer"
)

type PlateRecognizer interface {
	Recognize(ctx context.Context, img platerecognizer.Image) (*platerecognizer.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
