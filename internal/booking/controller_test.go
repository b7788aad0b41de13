package booking

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/reservationapi"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

var (
	dayA = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	dayB = time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	api     *fakeAPI
	windows *fakeWindows
	scanner *fakeScanner
	ctrl    *Controller
}

func newFixture() *fixture {
	f := &fixture{
		api:     &fakeAPI{},
		windows: newFakeWindows(),
		scanner: &fakeScanner{},
	}
	f.ctrl = NewController(f.api, f.windows, fakeRecognizer{body: []byte(`{"plate":"AB 123"}`)},
		f.scanner, domain.DefaultBusinessHours(), nopLogger{})
	return f
}

// toSchedule проводит сценарий до выбора слота
func (f *fixture) toSchedule(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.ctrl.Login(ctx, "user@example.com", "pw"))
	require.NoError(t, f.ctrl.SubmitPlate(ctx, "AB 123"))
	require.NoError(t, f.ctrl.SelectSession(ctx, 1))
	require.NoError(t, f.ctrl.SelectDate(ctx, dayA))
}

func TestController_HappyPath(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.toSchedule(t)

	require.NoError(t, f.ctrl.SetDuration(90))
	require.NoError(t, f.ctrl.SelectStart("10:00"))
	require.NoError(t, f.ctrl.Review())

	res, err := f.ctrl.Confirm(ctx)
	require.NoError(t, err)
	require.NotNil(t, res.Reservation)
	assert.False(t, res.Conflict)
	assert.Equal(t, "11:30", res.Reservation.EndTime)
	assert.Equal(t, "2025-10-15", res.Reservation.Date)
	require.NotNil(t, res.Reservation.ContactEmail)
	assert.Equal(t, "user@example.com", *res.Reservation.ContactEmail)

	st := f.ctrl.State()
	assert.Equal(t, StepDone, st.Step)
	assert.Empty(t, st.Error)
	assert.Equal(t, 2, f.api.verifyCalls, "номер + интервал")
	assert.Equal(t, 1, f.api.createCalls)

	require.NoError(t, f.ctrl.StartOver(ctx))
	assert.Equal(t, StepSchedule, f.ctrl.State().Step)
	assert.True(t, f.ctrl.State().Start.IsZero())
}

func TestController_StartOverRebuildsOccupancy(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.toSchedule(t)

	require.NoError(t, f.ctrl.SelectStart("10:00"))
	require.NoError(t, f.ctrl.Review())
	_, err := f.ctrl.Confirm(ctx)
	require.NoError(t, err)

	// после создания сервер видит слот занятым
	f.windows.mu.Lock()
	f.windows.occupied["2025-10-15"] = occupiedOf("10:00")
	f.windows.mu.Unlock()

	require.NoError(t, f.ctrl.StartOver(ctx))
	st := f.ctrl.State()
	assert.True(t, st.Occupied.Has("10:00"))
	assert.NotEmpty(t, st.Strip)

	err = f.ctrl.SelectStart("10:00")
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestController_StartOverRequiresDone(t *testing.T) {
	f := newFixture()
	f.toSchedule(t)
	assert.ErrorIs(t, f.ctrl.StartOver(context.Background()), ErrWrongStep)
}

func TestController_ConflictDoesNotRetry(t *testing.T) {
	f := newFixture()
	f.toSchedule(t)
	require.NoError(t, f.ctrl.SelectStart("10:00"))
	require.NoError(t, f.ctrl.Review())

	f.api.verify = func(req reservationapi.VerifyRequest) (*reservationapi.VerifyResponse, error) {
		return &reservationapi.VerifyResponse{Valid: true, Conflict: true, Message: "время занято"}, nil
	}
	verifyBefore := f.api.verifyCalls

	res, err := f.ctrl.Confirm(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Conflict)
	assert.Equal(t, "время занято", res.Message)

	assert.Equal(t, verifyBefore+1, f.api.verifyCalls)
	assert.Zero(t, f.api.createCalls)

	st := f.ctrl.State()
	assert.Equal(t, StepSchedule, st.Step)
	assert.Equal(t, "время занято", st.Error)
	assert.Equal(t, types.TimeString("10:00"), st.Start, "выбор не меняется автоматически")
}

func TestController_CreateConflictReturnsToSchedule(t *testing.T) {
	f := newFixture()
	f.toSchedule(t)
	require.NoError(t, f.ctrl.SelectStart("10:00"))
	require.NoError(t, f.ctrl.Review())

	f.api.createErr = &reservationapi.APIError{Status: http.StatusConflict, Message: "слот уже занят"}

	res, err := f.ctrl.Confirm(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Conflict)
	assert.Equal(t, 1, f.api.createCalls)
	assert.Equal(t, StepSchedule, f.ctrl.State().Step)
}

func TestController_ConfirmNetworkError(t *testing.T) {
	f := newFixture()
	f.toSchedule(t)
	require.NoError(t, f.ctrl.SelectStart("10:00"))
	require.NoError(t, f.ctrl.Review())

	f.api.createErr = &reservationapi.APIError{Status: http.StatusInternalServerError, Message: "internal"}

	_, err := f.ctrl.Confirm(context.Background())
	require.ErrorIs(t, err, ErrRequestFailed)

	st := f.ctrl.State()
	assert.Equal(t, StepConfirm, st.Step)
	assert.Equal(t, "internal", st.Error)
}

func TestController_LocalValidationSkipsNetwork(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.ctrl.Login(ctx, "user@example.com", "pw"))

	err := f.ctrl.SubmitPlate(ctx, "A 1")
	require.ErrorIs(t, err, ErrInvalidPlate)
	assert.Zero(t, f.api.verifyCalls)
	assert.Equal(t, StepPlate, f.ctrl.State().Step)

	require.NoError(t, f.ctrl.SubmitPlate(ctx, "AB 123"))
	for _, minutes := range []int{0, -30, 45, 14 * 60} {
		assert.ErrorIs(t, f.ctrl.SetDuration(minutes), ErrInvalidDuration, "minutes=%d", minutes)
	}
	assert.Equal(t, DefaultDurationMinutes, f.ctrl.State().Duration)
	assert.Equal(t, 1, f.api.verifyCalls)
}

func TestController_WrongStep(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	assert.ErrorIs(t, f.ctrl.SubmitPlate(ctx, "AB123"), ErrWrongStep)
	assert.ErrorIs(t, f.ctrl.SelectDate(ctx, dayA), ErrWrongStep)
	_, err := f.ctrl.Confirm(ctx)
	assert.ErrorIs(t, err, ErrWrongStep)
	assert.ErrorIs(t, f.ctrl.Login(ctx, "", ""), ErrInvalidInput)
}

func TestController_SelectStart(t *testing.T) {
	f := newFixture()
	f.windows.occupied["2025-10-15"] = occupiedOf("12:00")
	f.toSchedule(t)

	assert.ErrorIs(t, f.ctrl.SelectStart("12:00"), ErrSlotUnavailable, "занят")
	assert.ErrorIs(t, f.ctrl.SelectStart("10:15"), ErrSlotUnavailable, "вне сетки")
	assert.ErrorIs(t, f.ctrl.SelectStart("21:30"), ErrSlotUnavailable, "60 минут не укладываются до 22:00")
	require.NoError(t, f.ctrl.SelectStart("21:00"))

	assert.ErrorIs(t, newFixture().ctrl.Review(), ErrWrongStep)
}

func TestController_SetDurationReconcilesStart(t *testing.T) {
	f := newFixture()
	f.windows.occupied["2025-10-15"] = occupiedOf("20:00")
	f.toSchedule(t)

	require.NoError(t, f.ctrl.SelectStart("21:00"))
	require.NoError(t, f.ctrl.SetDuration(120))
	assert.Equal(t, types.TimeString("19:30"), f.ctrl.State().Start, "последний свободный и укладывающийся")

	// Выбор, который по-прежнему укладывается, не меняется
	require.NoError(t, f.ctrl.SetDuration(60))
	assert.Equal(t, types.TimeString("19:30"), f.ctrl.State().Start)
}

func TestController_OccupancyChangeReassignsStart(t *testing.T) {
	f := newFixture()
	f.toSchedule(t)
	require.NoError(t, f.ctrl.SelectStart("10:00"))

	f.windows.occupied["2025-10-16"] = occupiedOf("10:00", "21:00")
	require.NoError(t, f.ctrl.SelectDate(context.Background(), dayB))

	st := f.ctrl.State()
	assert.Equal(t, types.TimeString("20:30"), st.Start)
	assert.True(t, st.Occupied.Has("10:00"))
}

func TestController_StaleWindowIsDropped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.ctrl.Login(ctx, "user@example.com", "pw"))
	require.NoError(t, f.ctrl.SubmitPlate(ctx, "AB 123"))
	require.NoError(t, f.ctrl.SelectSession(ctx, 1))

	gateA, gateB := make(chan struct{}), make(chan struct{})
	f.windows.gates["2025-10-15"] = gateA
	f.windows.gates["2025-10-16"] = gateB
	f.windows.occupied["2025-10-15"] = occupiedOf("09:00")
	f.windows.started = make(chan string)

	doneA := make(chan error, 1)
	go func() { doneA <- f.ctrl.SelectDate(ctx, dayA) }()
	require.Equal(t, "2025-10-15", <-f.windows.started)

	doneB := make(chan error, 1)
	go func() { doneB <- f.ctrl.SelectDate(ctx, dayB) }()
	require.Equal(t, "2025-10-16", <-f.windows.started)

	close(gateB)
	require.NoError(t, <-doneB)
	close(gateA)
	require.NoError(t, <-doneA)

	st := f.ctrl.State()
	require.Len(t, st.Strip, 1)
	assert.Equal(t, dayB, st.Strip[0].Date)
	assert.False(t, st.Occupied.Has("09:00"), "занятость устаревшего окна не применена")
}

func TestController_WindowErrorKeepsPreviousStrip(t *testing.T) {
	f := newFixture()
	f.toSchedule(t)
	f.windows.errs["2025-10-16"] = errBoom

	err := f.ctrl.SelectDate(context.Background(), dayB)
	require.ErrorIs(t, err, ErrRequestFailed)

	st := f.ctrl.State()
	assert.Equal(t, "boom", st.Error)
	require.Len(t, st.Strip, 1)
	assert.Equal(t, dayA, st.Strip[0].Date)
}

func TestController_ScanPlateReleasesDevice(t *testing.T) {
	tests := []struct {
		name       string
		captureErr error
		recognizer fakeRecognizer
		wantPlate  string
		wantErr    bool
	}{
		{name: "успех", recognizer: fakeRecognizer{body: []byte(`{"plate":"XY 987"}`)}, wantPlate: "XY 987"},
		{name: "ошибка захвата", captureErr: errBoom, recognizer: fakeRecognizer{}, wantErr: true},
		{name: "ошибка распознавания", recognizer: fakeRecognizer{err: errBoom}, wantErr: true},
		{name: "номер не найден", recognizer: fakeRecognizer{body: []byte(`{}`)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := &fakeScanner{captureErr: tt.captureErr}
			ctrl := NewController(&fakeAPI{}, newFakeWindows(), tt.recognizer, scanner,
				domain.DefaultBusinessHours(), nopLogger{})
			require.NoError(t, ctrl.Login(context.Background(), "user@example.com", "pw"))

			plate, err := ctrl.ScanPlate(context.Background())
			if tt.wantErr {
				require.ErrorIs(t, err, ErrRequestFailed)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantPlate, plate)
				assert.Equal(t, tt.wantPlate, ctrl.State().Plate)
			}

			opened, closed := scanner.counts()
			assert.Equal(t, 1, opened)
			assert.Equal(t, 1, closed)
			assert.False(t, ctrl.State().Scanning)
		})
	}
}

func TestController_CloseReleasesScannerDuringCapture(t *testing.T) {
	scanner := &fakeScanner{block: make(chan struct{}), capturing: make(chan struct{})}
	ctrl := NewController(&fakeAPI{}, newFakeWindows(), fakeRecognizer{body: []byte(`{"plate":"AB123"}`)},
		scanner, domain.DefaultBusinessHours(), nopLogger{})
	require.NoError(t, ctrl.Login(context.Background(), "user@example.com", "pw"))

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.ScanPlate(context.Background())
		done <- err
	}()
	<-scanner.capturing

	_, err := ctrl.ScanPlate(context.Background())
	assert.ErrorIs(t, err, ErrScannerBusy)

	ctrl.Close()
	_, closed := scanner.counts()
	assert.Equal(t, 1, closed)

	close(scanner.block)
	require.NoError(t, <-done)
	_, closed = scanner.counts()
	assert.Equal(t, 1, closed, "устройство закрывается один раз")
}

func TestController_CancelReservationFiltersAfterSuccess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.api.mine = []reservationapi.Reservation{{ID: "a"}, {ID: "b"}}
	require.NoError(t, f.ctrl.Login(ctx, "user@example.com", "pw"))

	list, err := f.ctrl.MyReservations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	f.api.deleteErr = &reservationapi.APIError{Status: http.StatusNotFound, Message: "бронирование не найдено"}
	require.ErrorIs(t, f.ctrl.CancelReservation(ctx, "a"), ErrRequestFailed)
	assert.Len(t, f.ctrl.State().Mine, 2)
	assert.Equal(t, "бронирование не найдено", f.ctrl.State().Error)

	f.api.deleteErr = nil
	require.NoError(t, f.ctrl.CancelReservation(ctx, "a"))
	st := f.ctrl.State()
	require.Len(t, st.Mine, 1)
	assert.Equal(t, "b", st.Mine[0].ID)
	assert.Len(t, list, 2, "ранее выданный список не меняется")
}
