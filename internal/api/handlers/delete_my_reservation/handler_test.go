package delete_my_reservation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations"
	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	gotID    string
	gotOwner *models.OwnerRequest
	err      error
}

func (f *fakeService) DeleteMine(_ context.Context, id string, req *models.OwnerRequest) error {
	f.gotID = id
	f.gotOwner = req
	return f.err
}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/reservations/{reservationId}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodDelete)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, target, nil))
	return rec
}

func TestHandle_Deleted(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/api/reservations/r-1?email=a@b.c&plate=AB123")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "r-1", svc.gotID)
	assert.Equal(t, &models.OwnerRequest{Email: "a@b.c", Plate: "AB123"}, svc.gotOwner)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "нет владельца", err: reservations.ErrOwnerRequired, want: http.StatusBadRequest},
		{name: "не найдено", err: reservations.ErrReservationNotFound, want: http.StatusNotFound},
		{name: "внутренняя", err: reservations.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, "/api/reservations/r-1")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
