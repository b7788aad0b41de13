package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr error
	}{
		{name: "обычное время", input: "09:30", want: "09:30"},
		{name: "полночь", input: "00:00", want: "00:00"},
		{name: "секунды отбрасываются", input: "21:30:00", want: "21:30"},
		{name: "пробелы", input: " 10:00 ", want: "10:00"},
		{name: "без ведущего нуля", input: "9:30", wantErr: ErrInvalidTimeString},
		{name: "минуты вне диапазона", input: "10:60", wantErr: ErrInvalidTimeString},
		{name: "часы вне суток", input: "24:00", wantErr: ErrTimeOutOfRange},
		{name: "мусор", input: "ab:cd", wantErr: ErrInvalidTimeString},
		{name: "пусто", input: "", wantErr: ErrInvalidTimeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	m, err := TimeString("21:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 21*60+30, m)

	// Метки за пределами суток остаются сравнимыми
	m, err = FormatMinutes(24*60 + 30).Minutes()
	require.NoError(t, err)
	assert.Equal(t, 24*60+30, m)
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("21:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("22:00"), got)

	_, err = TimeString("23:30").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.False(t, TimeString("09:30").IsBefore("09:30"))
	assert.True(t, TimeString("22:00").IsAfter("21:30"))
	assert.True(t, TimeString("").IsZero())
}

func TestTimeString_IsAligned(t *testing.T) {
	assert.True(t, TimeString("10:30").IsAligned(30))
	assert.False(t, TimeString("10:15").IsAligned(30))
	assert.False(t, TimeString("bad").IsAligned(30))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:00"))
	assert.Equal(t, TimeString("10:00"), ts)

	require.NoError(t, ts.Scan([]byte("11:30:00")))
	assert.Equal(t, TimeString("11:30"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 1, 1, 12, 0, 45, 0, time.UTC)))
	assert.Equal(t, TimeString("12:00"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
