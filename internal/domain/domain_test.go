package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVCharge-ReservationService/pkg/ptr"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

func TestBusinessHours_ValidateInterval(t *testing.T) {
	hours := DefaultBusinessHours()

	tests := []struct {
		name       string
		start, end types.TimeString
		wantErr    error
	}{
		{name: "обычный интервал", start: "10:00", end: "11:30"},
		{name: "до закрытия", start: "21:30", end: "22:00"},
		{name: "с открытия", start: "09:00", end: "09:30"},
		{name: "конец раньше начала", start: "11:00", end: "10:00", wantErr: ErrEndBeforeStart},
		{name: "пустой интервал", start: "11:00", end: "11:00", wantErr: ErrEndBeforeStart},
		{name: "не кратно 30", start: "10:15", end: "11:00", wantErr: ErrNotAligned},
		{name: "до открытия", start: "08:30", end: "09:30", wantErr: ErrOutsideBusinessHours},
		{name: "после закрытия", start: "22:00", end: "22:30", wantErr: ErrOutsideBusinessHours},
		{name: "конец после закрытия", start: "21:00", end: "22:30", wantErr: ErrEndAfterClose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hours.ValidateInterval(tt.start, tt.end)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewBusinessHours(t *testing.T) {
	h, err := NewBusinessHours("09:00", "22:00")
	require.NoError(t, err)
	assert.Equal(t, 540, h.OpenMinutes())
	assert.Equal(t, 1320, h.CloseMinutes())

	_, err = NewBusinessHours("22:00", "09:00")
	assert.ErrorIs(t, err, ErrEndBeforeStart)
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "12GA3456", NormalizePlate(" 12ga 34\t56 "))
	assert.NoError(t, ValidatePlate("12 가 3456"))
	assert.ErrorIs(t, ValidatePlate(" ab 1 "), ErrPlateTooShort)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Nil(t, NormalizeEmail(nil))
	assert.Nil(t, NormalizeEmail(ptr.Ptr("   ")))
	assert.Equal(t, "user@demo.dev", *NormalizeEmail(ptr.Ptr(" User@Demo.dev ")))
}

func TestReservation_DerivedStatus(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	r := &Reservation{
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		EndTime:   "11:00",
		Status:    StatusConfirmed,
	}

	at := func(h, m int) time.Time { return time.Date(2025, 3, 10, h, m, 0, 0, loc) }

	assert.Equal(t, StatusConfirmed, r.DerivedStatus(at(9, 59), loc))
	assert.Equal(t, StatusInProgress, r.DerivedStatus(at(10, 0), loc))
	assert.Equal(t, StatusInProgress, r.DerivedStatus(at(10, 59), loc))
	assert.Equal(t, StatusCompleted, r.DerivedStatus(at(11, 0), loc))

	// Тот же момент в UTC: 01:30 UTC = 10:30 KST
	assert.Equal(t, StatusInProgress, r.DerivedStatus(time.Date(2025, 3, 10, 1, 30, 0, 0, time.UTC), loc))

	cancelled := *r
	cancelled.Status = StatusCancelled
	assert.Equal(t, StatusCancelled, cancelled.DerivedStatus(at(10, 30), loc))
}

func TestReservation_Overlaps(t *testing.T) {
	r := &Reservation{StartTime: "10:00", EndTime: "11:00"}

	assert.True(t, r.Overlaps("10:30", "11:30"))
	assert.True(t, r.Overlaps("09:00", "12:00"))
	assert.False(t, r.Overlaps("11:00", "12:00"), "касание в конце")
	assert.False(t, r.Overlaps("09:00", "10:00"), "касание в начале")
}

func TestFindBucket(t *testing.T) {
	buckets := []SessionBucket{{SessionID: 1}, {SessionID: 3, Name: "Session 3"}}
	require.NotNil(t, FindBucket(buckets, 3))
	assert.Equal(t, "Session 3", FindBucket(buckets, 3).Name)
	assert.Nil(t, FindBucket(buckets, 2))
}
