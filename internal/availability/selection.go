package availability

import (
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// ReconcileStartTime пересчитывает начало после смены длительности.
// Если current+duration укладывается до закрытия, current возвращается без изменений,
// даже если он занят. Иначе:
//  1. последний слот, который укладывается и свободен;
//  2. первый слот, который укладывается (занятость игнорируется, отклонит сервер);
//  3. ничего не укладывается: current и false.
func ReconcileStartTime(
	current types.TimeString,
	durationMinutes int,
	occupied OccupiedSet,
	allSlots []types.TimeString,
	hours domain.BusinessHours,
) (types.TimeString, bool) {
	if fits(current, durationMinutes, hours) {
		return current, true
	}
	return fallback(current, durationMinutes, occupied, allSlots, hours)
}

// ReconcileOnOccupancyChange пересчитывает начало после обновления занятости.
// Выбор, который стал занят чужим бронированием, переназначается тем же порядком
func ReconcileOnOccupancyChange(
	current types.TimeString,
	durationMinutes int,
	occupied OccupiedSet,
	allSlots []types.TimeString,
	hours domain.BusinessHours,
) (types.TimeString, bool) {
	if fits(current, durationMinutes, hours) && !occupied.Has(current) {
		return current, true
	}
	return fallback(current, durationMinutes, occupied, allSlots, hours)
}

func fallback(
	current types.TimeString,
	durationMinutes int,
	occupied OccupiedSet,
	allSlots []types.TimeString,
	hours domain.BusinessHours,
) (types.TimeString, bool) {
	for i := len(allSlots) - 1; i >= 0; i-- {
		slot := allSlots[i]
		if fits(slot, durationMinutes, hours) && !occupied.Has(slot) {
			return slot, true
		}
	}

	for _, slot := range allSlots {
		if fits(slot, durationMinutes, hours) {
			return slot, true
		}
	}

	return current, false
}
