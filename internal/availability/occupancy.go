package availability

import (
	"math"
	"sort"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// OccupiedSet множество занятых меток слотов
type OccupiedSet map[types.TimeString]struct{}

// Has true, если слот занят
func (s OccupiedSet) Has(slot types.TimeString) bool {
	_, ok := s[slot]
	return ok
}

// Len число занятых меток
func (s OccupiedSet) Len() int {
	return len(s)
}

// Sorted метки в хронологическом порядке
func (s OccupiedSet) Sorted() []types.TimeString {
	out := make([]types.TimeString, 0, len(s))
	for slot := range s {
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IsBefore(out[j]) })
	return out
}

// OccupiedSlots разворачивает каждое активное бронирование в метки с шагом 30 минут
// от начала (включительно) до конца (не включительно).
// Невыровненное бронирование дает невыровненные метки: они занимают место в множестве,
// но не совпадают ни с одним слотом сетки
func OccupiedSlots(reservations []*domain.Reservation) OccupiedSet {
	set := make(OccupiedSet)
	for _, r := range reservations {
		if r == nil || !r.IsActive() {
			continue
		}
		start, err := r.StartTime.Minutes()
		if err != nil {
			continue
		}
		end, err := r.EndTime.Minutes()
		if err != nil {
			continue
		}
		for m := start; m < end; m += domain.SlotMinutes {
			set[types.FormatMinutes(m)] = struct{}{}
		}
	}
	return set
}

// FreePercent = round(100 * max(0, |all| - |occupied|) / |all|).
// Для пустой сетки 0
func FreePercent(allSlots []types.TimeString, occupied OccupiedSet) int {
	total := len(allSlots)
	if total == 0 {
		return 0
	}
	free := total - occupied.Len()
	if free < 0 {
		free = 0
	}
	return int(math.Round(100 * float64(free) / float64(total)))
}

// Tier уровень загруженности дня
type Tier string

const (
	TierRoomy     Tier = "roomy"
	TierModerate  Tier = "moderate"
	TierCongested Tier = "congested"
)

// TierFor: >66 roomy, >33 moderate, иначе congested (67 и 34 попадают в верхний уровень)
func TierFor(freePercent int) Tier {
	switch {
	case freePercent > 66:
		return TierRoomy
	case freePercent > 33:
		return TierModerate
	default:
		return TierCongested
	}
}
