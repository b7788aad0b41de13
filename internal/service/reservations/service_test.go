package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/events"
	"github.com/m04kA/EVCharge-ReservationService/internal/infra/storage/database"
	reservationRepo "github.com/m04kA/EVCharge-ReservationService/internal/infra/storage/reservation"
	sessionRepo "github.com/m04kA/EVCharge-ReservationService/internal/infra/storage/session"
	"github.com/m04kA/EVCharge-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/EVCharge-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/EVCharge-ReservationService/pkg/logger"
	"github.com/m04kA/EVCharge-ReservationService/pkg/ptr"
	"github.com/m04kA/EVCharge-ReservationService/pkg/sqlbuilder"
	"github.com/m04kA/EVCharge-ReservationService/pkg/txmanager"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

type fakePublisher struct{ published []events.ReservationEvent }

func (f *fakePublisher) Publish(_ context.Context, e events.ReservationEvent) {
	f.published = append(f.published, e)
}

type fakeMetrics struct{ actors []string }

func (f *fakeMetrics) ReservationDeleted(actor string) { f.actors = append(f.actors, actor) }

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	svc       *Service
	repo      *reservationRepo.Repository
	publisher *fakePublisher
	metrics   *fakeMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	raw, err := database.Open(ctx, sqlbuilder.SQLite, "file::memory:", database.PoolConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	db := dbmetrics.Wrap(raw, nil, "test")
	builder := sqlbuilder.New(sqlbuilder.SQLite)
	sessions := sessionRepo.NewRepository(db, builder)
	_, err = sessions.EnsureBase(ctx, []string{"Session 1", "Session 2"})
	require.NoError(t, err)

	repo := reservationRepo.NewRepository(db, builder)
	pub := &fakePublisher{}
	m := &fakeMetrics{}

	svc := NewService(repo, sessions, txmanager.NewTransactionManager(db, false), pub, m, time.UTC, logger.NewNop())
	svc.timeProvider = fixedTime{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}

	return &fixture{svc: svc, repo: repo, publisher: pub, metrics: m}
}

func (f *fixture) seed(t *testing.T, sessionID int64, plate, date string, start, end types.TimeString, email *string) *domain.Reservation {
	t.Helper()
	d, err := domain.ParseDate(date)
	require.NoError(t, err)
	created, err := f.repo.Create(context.Background(), &domain.Reservation{
		SessionID:       sessionID,
		Plate:           plate,
		PlateNormalized: domain.NormalizePlate(plate),
		Date:            d,
		StartTime:       start,
		EndTime:         end,
		Status:          domain.StatusConfirmed,
		ContactEmail:    email,
	})
	require.NoError(t, err)
	return created
}

func TestService_ListSessions(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 1, "11가1111", "2025-03-10", "13:00", "14:00", nil)
	f.seed(t, 1, "22나2222", "2025-03-10", "10:00", "11:00", nil)
	f.seed(t, 2, "33다3333", "2025-03-11", "09:00", "10:00", nil)

	list, err := f.svc.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	s1 := list[0].Reservations
	require.Len(t, s1, 2)
	assert.Equal(t, "10:00", s1[0].StartTime)
	assert.Equal(t, string(domain.StatusCompleted), s1[0].Status)
	assert.Equal(t, "13:00", s1[1].StartTime)
	assert.Equal(t, string(domain.StatusConfirmed), s1[1].Status)

	require.Len(t, list[1].Reservations, 1)
}

func TestService_ListMine(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 1, "11가1111", "2025-03-10", "10:00", "11:00", ptr.Ptr("me@demo.dev"))
	f.seed(t, 2, "11가1111", "2025-03-12", "10:00", "11:00", ptr.Ptr("me@demo.dev"))
	f.seed(t, 2, "99하9999", "2025-03-12", "12:00", "13:00", ptr.Ptr("other@demo.dev"))

	_, err := f.svc.ListMine(context.Background(), &models.OwnerRequest{})
	assert.ErrorIs(t, err, ErrOwnerRequired)

	mine, err := f.svc.ListMine(context.Background(), &models.OwnerRequest{Email: "ME@demo.dev"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "2025-03-12", mine[0].Date)

	byPlate, err := f.svc.ListMine(context.Background(), &models.OwnerRequest{Plate: "11 가 1111"})
	require.NoError(t, err)
	assert.Len(t, byPlate, 2)
}

func TestService_DeleteMine(t *testing.T) {
	f := newFixture(t)
	res := f.seed(t, 1, "11가1111", "2025-03-10", "10:00", "11:00", ptr.Ptr("me@demo.dev"))

	err := f.svc.DeleteMine(context.Background(), res.ID, &models.OwnerRequest{Email: "other@demo.dev"})
	assert.ErrorIs(t, err, ErrReservationNotFound)

	err = f.svc.DeleteMine(context.Background(), res.ID, &models.OwnerRequest{})
	assert.ErrorIs(t, err, ErrOwnerRequired)

	require.NoError(t, f.svc.DeleteMine(context.Background(), res.ID, &models.OwnerRequest{Email: "me@demo.dev"}))
	assert.Equal(t, []string{ActorUser}, f.metrics.actors)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.TypeReservationDeleted, f.publisher.published[0].EventType)
	assert.Equal(t, res.ID, f.publisher.published[0].ReservationID)

	_, err = f.repo.GetByID(context.Background(), res.ID)
	assert.ErrorIs(t, err, reservationRepo.ErrReservationNotFound)
}

func TestService_AdminDelete(t *testing.T) {
	f := newFixture(t)
	res := f.seed(t, 1, "11가1111", "2025-03-10", "10:00", "11:00", nil)

	require.NoError(t, f.svc.AdminDelete(context.Background(), res.ID))
	assert.ErrorIs(t, f.svc.AdminDelete(context.Background(), res.ID), ErrReservationNotFound)
	assert.Equal(t, []string{ActorAdmin}, f.metrics.actors)
}
