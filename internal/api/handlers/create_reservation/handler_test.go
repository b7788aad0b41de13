package create_reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers"
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	createReservation "github.com/m04kA/EVCharge-ReservationService/internal/usecase/create_reservation"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got  *createReservation.Request
	resp *createReservation.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	f.got = req
	return f.resp, f.err
}

const validBody = `{"sessionId":1,"plate":"ab 123","date":"2025-10-15","startTime":"10:00","endTime":"11:30"}`

func serve(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	h := NewHandler(uc, nopLogger{})
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(body)))
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: &createReservation.Response{
		Reservation: &domain.Reservation{
			ID:        "r-1",
			SessionID: 1,
			Plate:     "ab 123",
			Date:      time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
			StartTime: "10:00",
			EndTime:   "11:30",
			Status:    domain.StatusConfirmed,
		},
		Status: domain.StatusConfirmed,
	}}

	rec := serve(uc, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(1), uc.got.SessionID)
	assert.Equal(t, "10:00", uc.got.StartTime.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "r-1", body["id"])
	assert.Equal(t, "2025-10-15", body["date"])
	assert.Equal(t, "CONFIRMED", body["status"])
}

func TestHandle_BadRequestBeforeUseCase(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "пустое тело", body: "", message: msgInvalidRequestBody},
		{name: "не JSON", body: "{", message: msgInvalidRequestBody},
		{name: "дата", body: `{"sessionId":1,"plate":"AB123","date":"15.10.2025","startTime":"10:00","endTime":"11:00"}`, message: msgInvalidDate},
		{name: "время", body: `{"sessionId":1,"plate":"AB123","date":"2025-10-15","startTime":"10-00","endTime":"11:00"}`, message: msgInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := serve(uc, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)

			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "сессия не найдена", err: createReservation.ErrSessionNotFound, status: http.StatusNotFound, message: msgSessionNotFound},
		{name: "сессия занята", err: createReservation.ErrSessionConflict, status: http.StatusConflict, message: msgSessionConflict},
		{name: "номер занят", err: createReservation.ErrPlateConflict, status: http.StatusConflict, message: msgPlateConflict},
		{
			name:    "вне рабочих часов",
			err:     fmt.Errorf("%w: %w", createReservation.ErrInvalidInput, domain.ErrOutsideBusinessHours),
			status:  http.StatusBadRequest,
			message: msgOutsideHours,
		},
		{
			name:    "шаг сетки",
			err:     fmt.Errorf("%w: %w", createReservation.ErrInvalidInput, domain.ErrNotAligned),
			status:  http.StatusBadRequest,
			message: msgNotAligned,
		},
		{
			name:    "короткий номер",
			err:     fmt.Errorf("%w: %w", createReservation.ErrInvalidInput, domain.ErrPlateTooShort),
			status:  http.StatusBadRequest,
			message: msgInvalidPlate,
		},
		{name: "прочий ввод", err: createReservation.ErrInvalidInput, status: http.StatusBadRequest, message: msgInvalidInput},
		{name: "внутренняя", err: createReservation.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, validBody)
			assert.Equal(t, tt.status, rec.Code)

			if tt.message != "" {
				var resp handlers.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.message, resp.Message)
			}
		})
	}
}
