package create_reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/events"
	reservationRepo "github.com/m04kA/EVCharge-ReservationService/internal/infra/storage/reservation"
	sessionRepo "github.com/m04kA/EVCharge-ReservationService/internal/infra/storage/session"
	"github.com/m04kA/EVCharge-ReservationService/pkg/logger"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

type fakeReservations struct {
	existing  []*domain.Reservation
	createErr error
	created   []*domain.Reservation
}

func (f *fakeReservations) FindOverlapping(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, r := range f.existing {
		if !r.IsActive() || !r.Date.Equal(filter.Date) || !r.Overlaps(filter.Start, filter.End) {
			continue
		}
		if filter.SessionID != nil && r.SessionID != *filter.SessionID {
			continue
		}
		if filter.PlateNormalized != nil && r.PlateNormalized != *filter.PlateNormalized {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReservations) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *res
	created.ID = "new-id"
	f.created = append(f.created, &created)
	return &created, nil
}

type fakeSessions struct{}

func (fakeSessions) GetByID(_ context.Context, id int64) (*domain.ChargingSession, error) {
	if id > 4 {
		return nil, sessionRepo.ErrSessionNotFound
	}
	return &domain.ChargingSession{ID: id, Name: "Session"}, nil
}

type fakeTx struct{ calls int }

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakePublisher struct{ published []events.ReservationEvent }

func (f *fakePublisher) Publish(_ context.Context, e events.ReservationEvent) {
	f.published = append(f.published, e)
}

type fakeMetrics struct {
	created   int
	conflicts []string
}

func (f *fakeMetrics) ReservationCreated()          { f.created++ }
func (f *fakeMetrics) ReservationConflict(r string) { f.conflicts = append(f.conflicts, r) }

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var testDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newUseCase(repo *fakeReservations) (*UseCase, *fakePublisher, *fakeMetrics) {
	pub := &fakePublisher{}
	m := &fakeMetrics{}
	uc := NewUseCase(repo, fakeSessions{}, &fakeTx{}, pub, m, domain.DefaultBusinessHours(), time.UTC, logger.NewNop())
	uc.timeProvider = fixedTime{now: testDate.Add(8 * time.Hour)}
	return uc, pub, m
}

func existing(session int64, plate, start, end string) *domain.Reservation {
	return &domain.Reservation{
		ID:              plate + start,
		SessionID:       session,
		Plate:           plate,
		PlateNormalized: domain.NormalizePlate(plate),
		Date:            testDate,
		StartTime:       types.TimeString(start),
		EndTime:         types.TimeString(end),
		Status:          domain.StatusConfirmed,
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	repo := &fakeReservations{}
	uc, pub, m := newUseCase(repo)
	email := "  Me@Demo.DEV "

	resp, err := uc.Execute(context.Background(), &Request{
		SessionID:    1,
		Plate:        " 12 가 3456 ",
		Date:         testDate,
		StartTime:    "10:00",
		EndTime:      "11:30",
		ContactEmail: &email,
	})
	require.NoError(t, err)

	assert.Equal(t, "new-id", resp.Reservation.ID)
	assert.Equal(t, "12 가 3456", resp.Reservation.Plate)
	assert.Equal(t, "12가3456", resp.Reservation.PlateNormalized)
	require.NotNil(t, resp.Reservation.ContactEmail)
	assert.Equal(t, "me@demo.dev", *resp.Reservation.ContactEmail)
	assert.Equal(t, domain.StatusConfirmed, resp.Status)

	assert.Equal(t, 1, m.created)
	require.Len(t, pub.published, 1)
	assert.Equal(t, events.TypeReservationCreated, pub.published[0].EventType)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "конец раньше начала", req: Request{StartTime: "11:00", EndTime: "10:00"}, wantErr: domain.ErrEndBeforeStart},
		{name: "не кратно 30", req: Request{StartTime: "10:15", EndTime: "11:00"}, wantErr: domain.ErrNotAligned},
		{name: "до открытия", req: Request{StartTime: "08:30", EndTime: "09:30"}, wantErr: domain.ErrOutsideBusinessHours},
		{name: "после закрытия", req: Request{StartTime: "21:30", EndTime: "22:30"}, wantErr: domain.ErrEndAfterClose},
		{name: "короткий номер", req: Request{StartTime: "10:00", EndTime: "10:30", Plate: "12 3"}, wantErr: domain.ErrPlateTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeReservations{}
			uc, _, _ := newUseCase(repo)

			req := tt.req
			req.SessionID = 1
			req.Date = testDate
			if req.Plate == "" {
				req.Plate = "12가3456"
			}

			_, err := uc.Execute(context.Background(), &req)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.created)
		})
	}
}

func TestUseCase_Execute_Conflicts(t *testing.T) {
	repo := &fakeReservations{existing: []*domain.Reservation{
		existing(1, "11가1111", "10:00", "11:00"),
		existing(2, "22나2222", "13:00", "14:00"),
	}}
	uc, _, m := newUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{SessionID: 1, Plate: "33다3333", Date: testDate, StartTime: "10:30", EndTime: "11:30"})
	assert.ErrorIs(t, err, ErrSessionConflict)

	// касание границы не конфликт
	_, err = uc.Execute(context.Background(), &Request{SessionID: 1, Plate: "33다3333", Date: testDate, StartTime: "11:00", EndTime: "12:00"})
	require.NoError(t, err)

	// тот же номер в другой сессии
	_, err = uc.Execute(context.Background(), &Request{SessionID: 3, Plate: "22 나 2222", Date: testDate, StartTime: "13:30", EndTime: "14:00"})
	assert.ErrorIs(t, err, ErrPlateConflict)

	assert.Equal(t, []string{conflictSession, conflictPlate}, m.conflicts)
}

func TestUseCase_Execute_CancelledDoesNotConflict(t *testing.T) {
	cancelled := existing(1, "11가1111", "10:00", "11:00")
	cancelled.Status = domain.StatusCancelled
	uc, _, _ := newUseCase(&fakeReservations{existing: []*domain.Reservation{cancelled}})

	_, err := uc.Execute(context.Background(), &Request{SessionID: 1, Plate: "11가1111", Date: testDate, StartTime: "10:00", EndTime: "11:00"})
	assert.NoError(t, err)
}

func TestUseCase_Execute_RepositoryErrors(t *testing.T) {
	uc, _, _ := newUseCase(&fakeReservations{})
	_, err := uc.Execute(context.Background(), &Request{SessionID: 9, Plate: "12가3456", Date: testDate, StartTime: "10:00", EndTime: "11:00"})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	uc, pub, _ := newUseCase(&fakeReservations{createErr: reservationRepo.ErrDuplicateSlot})
	_, err = uc.Execute(context.Background(), &Request{SessionID: 1, Plate: "12가3456", Date: testDate, StartTime: "10:00", EndTime: "11:00"})
	assert.ErrorIs(t, err, ErrSessionConflict)
	assert.Empty(t, pub.published)

	uc, _, _ = newUseCase(&fakeReservations{createErr: errors.New("disk full")})
	_, err = uc.Execute(context.Background(), &Request{SessionID: 1, Plate: "12가3456", Date: testDate, StartTime: "10:00", EndTime: "11:00"})
	assert.ErrorIs(t, err, ErrInternal)
}
