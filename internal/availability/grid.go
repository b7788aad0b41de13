package availability

import (
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// GenerateSlots возвращает все начала слотов дня: open, open+30, ..., close-30.
// Результат зависит только от рабочих часов
func GenerateSlots(hours domain.BusinessHours) []types.TimeString {
	open := hours.OpenMinutes()
	closeMin := hours.CloseMinutes()
	if closeMin-open < domain.SlotMinutes {
		return []types.TimeString{}
	}

	slots := make([]types.TimeString, 0, (closeMin-open)/domain.SlotMinutes)
	for m := open; m <= closeMin-domain.SlotMinutes; m += domain.SlotMinutes {
		slots = append(slots, types.FormatMinutes(m))
	}
	return slots
}

// EndOf время окончания: start + duration без ограничения закрытием.
// Сравнение с закрытием остается на вызывающей стороне
func EndOf(start types.TimeString, durationMinutes int) (types.TimeString, error) {
	m, err := start.Minutes()
	if err != nil {
		return "", err
	}
	return types.FormatMinutes(m + durationMinutes), nil
}

// fits проверяет, что слот с указанной длительностью заканчивается не позже закрытия
func fits(slot types.TimeString, durationMinutes int, hours domain.BusinessHours) bool {
	m, err := slot.Minutes()
	if err != nil {
		return false
	}
	return m+durationMinutes <= hours.CloseMinutes()
}
