package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

func occupiedOf(slots ...types.TimeString) OccupiedSet {
	set := make(OccupiedSet, len(slots))
	for _, s := range slots {
		set[s] = struct{}{}
	}
	return set
}

func TestReconcileStartTime(t *testing.T) {
	hours := domain.DefaultBusinessHours()
	all := GenerateSlots(hours)

	tests := []struct {
		name     string
		current  types.TimeString
		duration int
		occupied OccupiedSet
		want     types.TimeString
		wantOK   bool
	}{
		{
			name:     "последний свободный подходящий слот",
			current:  "21:00",
			duration: 120,
			occupied: occupiedOf("21:00", "20:30"),
			want:     "20:00",
			wantOK:   true,
		},
		{
			name:     "последние подходящие заняты",
			current:  "21:30",
			duration: 120,
			occupied: occupiedOf("20:00", "19:30"),
			want:     "19:00",
			wantOK:   true,
		},
		{
			name:     "все подходящие заняты, берется первый подходящий",
			current:  "21:30",
			duration: 780,
			occupied: occupiedOf("09:00"),
			want:     "09:00",
			wantOK:   true,
		},
		{
			name:     "длительность больше рабочего дня",
			current:  "12:00",
			duration: 810,
			occupied: OccupiedSet{},
			want:     "12:00",
			wantOK:   false,
		},
		{
			name:     "пустой выбор получает слот",
			current:  "",
			duration: 60,
			occupied: OccupiedSet{},
			want:     "21:00",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ReconcileStartTime(tt.current, tt.duration, tt.occupied, all, hours)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestReconcileStartTime_NoReshuffleWhenFits(t *testing.T) {
	hours := domain.DefaultBusinessHours()
	all := GenerateSlots(hours)

	// Слот занят, но укладывается: смена длительности его не трогает
	got, ok := ReconcileStartTime("14:00", 60, occupiedOf("14:00"), all, hours)
	assert.True(t, ok)
	assert.Equal(t, types.TimeString("14:00"), got)

	got, ok = ReconcileStartTime("20:00", 120, OccupiedSet{}, all, hours)
	assert.True(t, ok)
	assert.Equal(t, types.TimeString("20:00"), got, "ровно до закрытия")
}

func TestReconcileOnOccupancyChange(t *testing.T) {
	hours := domain.DefaultBusinessHours()
	all := GenerateSlots(hours)

	got, ok := ReconcileOnOccupancyChange("14:00", 60, occupiedOf("15:00"), all, hours)
	assert.True(t, ok)
	assert.Equal(t, types.TimeString("14:00"), got, "свободный выбор остается")

	got, ok = ReconcileOnOccupancyChange("14:00", 60, occupiedOf("14:00", "21:00"), all, hours)
	assert.True(t, ok)
	assert.Equal(t, types.TimeString("20:30"), got, "занятый выбор переназначается")

	got, ok = ReconcileOnOccupancyChange("21:30", 60, OccupiedSet{}, all, hours)
	assert.True(t, ok)
	assert.Equal(t, types.TimeString("21:00"), got, "неподходящий выбор тоже переназначается")
}
