package availability

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

func reservation(start, end types.TimeString) *domain.Reservation {
	return &domain.Reservation{StartTime: start, EndTime: end, Status: domain.StatusConfirmed}
}

func TestOccupiedSlots_CoversDeclaredSpan(t *testing.T) {
	occupied := OccupiedSlots([]*domain.Reservation{reservation("10:00", "11:30")})

	assert.Equal(t, []types.TimeString{"10:00", "10:30", "11:00"}, occupied.Sorted())
	assert.False(t, occupied.Has("11:30"), "конец не включается")
}

func TestOccupiedSlots_Misaligned(t *testing.T) {
	// 10:15-11:00 дает метки 10:15 и 10:45
	occupied := OccupiedSlots([]*domain.Reservation{reservation("10:15", "11:00")})

	assert.Equal(t, []types.TimeString{"10:15", "10:45"}, occupied.Sorted())
	assert.False(t, occupied.Has("10:00"))
	assert.False(t, occupied.Has("10:30"))
}

func TestOccupiedSlots_SkipsCancelledAndMalformed(t *testing.T) {
	cancelled := reservation("12:00", "13:00")
	cancelled.Status = domain.StatusCancelled

	occupied := OccupiedSlots([]*domain.Reservation{
		cancelled,
		reservation("bad", "13:00"),
		nil,
		reservation("14:00", "14:30"),
		reservation("14:00", "15:00"),
	})

	assert.Equal(t, []types.TimeString{"14:00", "14:30"}, occupied.Sorted())
}

func TestFreePercent(t *testing.T) {
	all := GenerateSlots(domain.DefaultBusinessHours())

	occupied := make(OccupiedSet)
	for _, slot := range all[:9] {
		occupied[slot] = struct{}{}
	}
	assert.Equal(t, 65, FreePercent(all, occupied))
	assert.Equal(t, TierModerate, TierFor(65))

	assert.Equal(t, 100, FreePercent(all, OccupiedSet{}))
	assert.Equal(t, 0, FreePercent(nil, OccupiedSet{}))
}

func TestFreePercent_Overflow(t *testing.T) {
	all := []types.TimeString{"09:00", "09:30"}
	occupied := OccupiedSet{"09:00": {}, "09:15": {}, "09:45": {}}

	assert.Equal(t, 0, FreePercent(all, occupied))
}

func TestFreePercent_Monotonic(t *testing.T) {
	all := GenerateSlots(domain.DefaultBusinessHours())
	occupied := make(OccupiedSet)

	prev := FreePercent(all, occupied)
	for i, slot := range all {
		occupied[slot] = struct{}{}
		got := FreePercent(all, occupied)
		assert.LessOrEqual(t, got, prev, fmt.Sprintf("occupied=%d", i+1))
		prev = got
	}
	assert.Equal(t, 0, prev)
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		pct  int
		want Tier
	}{
		{100, TierRoomy},
		{67, TierRoomy},
		{66, TierModerate},
		{34, TierModerate},
		{33, TierCongested},
		{0, TierCongested},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.pct), func(t *testing.T) {
			assert.Equal(t, tt.want, TierFor(tt.pct))
		})
	}
}
