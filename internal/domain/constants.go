package domain

import "github.com/m04kA/EVCharge-ReservationService/pkg/types"

// Slot grid
const (
	SlotMinutes = 30

	DefaultOpen  types.TimeString = "09:00"
	DefaultClose types.TimeString = "22:00"
)

// Availability window: offsets -3..+10 относительно выбранной даты
const (
	WindowDaysBefore = 3
	WindowDaysAfter  = 10
	WindowSize       = WindowDaysBefore + WindowDaysAfter + 1
)

// Business validation constants
const (
	MinPlateLength     = 5
	MaxPlateLength     = 32
	MaxEmailLength     = 255
	DefaultSessionSeed = 4
)

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	LabelFormat = "1/2"        // M/D для полосы доступности
)
