package booking

import (
	"maps"
	"slices"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/availability"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/reservationapi"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// Step шаг пользовательского сценария
type Step string

const (
	StepLogin    Step = "login"
	StepPlate    Step = "plate"
	StepSchedule Step = "schedule"
	StepConfirm  Step = "confirm"
	StepDone     Step = "done"
)

func (s Step) String() string {
	return string(s)
}

// DefaultDurationMinutes длительность по умолчанию
const DefaultDurationMinutes = 60

// State снимок состояния сценария.
// Производные коллекции (Strip, Occupied) заменяются целиком при каждом пересчете
type State struct {
	Step      Step
	Email     string
	Plate     string
	Date      time.Time
	SessionID int64
	Start     types.TimeString
	Duration  int

	Strip    []availability.StripEntry
	Occupied availability.OccupiedSet

	Mine     []reservationapi.Reservation
	Created  *reservationapi.Reservation
	Error    string
	Scanning bool
}

func (s State) clone() State {
	s.Strip = slices.Clone(s.Strip)
	s.Occupied = maps.Clone(s.Occupied)
	s.Mine = slices.Clone(s.Mine)
	return s
}

// ConfirmResult итог подтверждения. Конфликт не является ошибкой
type ConfirmResult struct {
	Conflict    bool
	Message     string
	Reservation *reservationapi.Reservation
}
