package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/availability"
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/platerecognizer"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/reservationapi"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeAPI REST сервис с подсчетом вызовов
type fakeAPI struct {
	mu sync.Mutex

	verifyCalls int
	createCalls int
	deleteCalls int

	verify    func(req reservationapi.VerifyRequest) (*reservationapi.VerifyResponse, error)
	createErr error
	deleteErr error
	mine      []reservationapi.Reservation

	adminSessions func(date time.Time) ([]domain.SessionBucket, error)
	adminCalls    int
}

func (f *fakeAPI) UserLogin(_ context.Context, creds reservationapi.Credentials) (*reservationapi.UserLoginResponse, error) {
	return &reservationapi.UserLoginResponse{Token: "t", User: reservationapi.Account{Email: creds.Email}}, nil
}

func (f *fakeAPI) Verify(_ context.Context, req reservationapi.VerifyRequest) (*reservationapi.VerifyResponse, error) {
	f.mu.Lock()
	f.verifyCalls++
	f.mu.Unlock()
	if f.verify != nil {
		return f.verify(req)
	}
	return &reservationapi.VerifyResponse{Valid: true, Message: "ok"}, nil
}

func (f *fakeAPI) CreateReservation(_ context.Context, req reservationapi.CreateRequest) (*reservationapi.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &reservationapi.Reservation{
		ID:           "r-new",
		SessionID:    req.SessionID,
		Plate:        req.Plate,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Status:       "CONFIRMED",
		ContactEmail: req.ContactEmail,
	}, nil
}

func (f *fakeAPI) MyReservations(context.Context, reservationapi.OwnerFilter) ([]reservationapi.Reservation, error) {
	return f.mine, nil
}

func (f *fakeAPI) DeleteReservation(context.Context, string, reservationapi.OwnerFilter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeAPI) AdminLogin(_ context.Context, creds reservationapi.Credentials) (*reservationapi.AdminLoginResponse, error) {
	if creds.Password != "secret" {
		return nil, &reservationapi.APIError{Status: 401, Message: "неверный email или пароль"}
	}
	return &reservationapi.AdminLoginResponse{Token: "admin-token", Admin: reservationapi.Account{Email: creds.Email}}, nil
}

func (f *fakeAPI) AdminSessionsByDate(_ context.Context, token string, date time.Time) ([]domain.SessionBucket, error) {
	f.mu.Lock()
	f.adminCalls++
	f.mu.Unlock()
	if token != "admin-token" {
		return nil, reservationapi.ErrNotAuthorized
	}
	return f.adminSessions(date)
}

func (f *fakeAPI) AdminDelete(_ context.Context, _ string, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.deleteErr
}

// fakeWindows построитель окна; для даты можно задать занятость, ошибку и «шлагбаум»
type fakeWindows struct {
	slots []types.TimeString

	mu       sync.Mutex
	occupied map[string]availability.OccupiedSet
	errs     map[string]error
	gates    map[string]chan struct{}
	started  chan string
}

func newFakeWindows() *fakeWindows {
	return &fakeWindows{
		slots:    availability.GenerateSlots(domain.DefaultBusinessHours()),
		occupied: map[string]availability.OccupiedSet{},
		errs:     map[string]error{},
		gates:    map[string]chan struct{}{},
	}
}

func (f *fakeWindows) Slots() []types.TimeString {
	return f.slots
}

func (f *fakeWindows) Build(ctx context.Context, center time.Time, sessionID int64) (*availability.Window, error) {
	key := center.Format(domain.DateFormat)

	f.mu.Lock()
	gate := f.gates[key]
	occupied := f.occupied[key]
	err := f.errs[key]
	started := f.started
	f.mu.Unlock()

	if started != nil {
		started <- key
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if occupied == nil {
		occupied = availability.OccupiedSet{}
	}
	return &availability.Window{
		Center:    center,
		SessionID: sessionID,
		Entries:   []availability.StripEntry{{Date: center, Label: availability.Label(center)}},
		Occupied:  occupied,
	}, nil
}

func occupiedOf(slots ...types.TimeString) availability.OccupiedSet {
	set := availability.OccupiedSet{}
	for _, s := range slots {
		set[s] = struct{}{}
	}
	return set
}

// fakeScanner считает открытия и закрытия устройства
type fakeScanner struct {
	mu         sync.Mutex
	opened     int
	closed     int
	openErr    error
	captureErr error
	block      chan struct{}
	capturing  chan struct{}
}

func (s *fakeScanner) Open(context.Context) (Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return nil, s.openErr
	}
	s.opened++
	return &fakeDevice{scanner: s}, nil
}

func (s *fakeScanner) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed
}

type fakeDevice struct {
	scanner *fakeScanner
	once    sync.Once
}

func (d *fakeDevice) Capture(context.Context) (platerecognizer.Image, error) {
	if d.scanner.capturing != nil {
		close(d.scanner.capturing)
	}
	if d.scanner.block != nil {
		<-d.scanner.block
	}
	if d.scanner.captureErr != nil {
		return platerecognizer.Image{}, d.scanner.captureErr
	}
	return platerecognizer.Image{Filename: "frame.jpg", Data: []byte("jpeg")}, nil
}

func (d *fakeDevice) Close() error {
	d.once.Do(func() {
		d.scanner.mu.Lock()
		d.scanner.closed++
		d.scanner.mu.Unlock()
	})
	return nil
}

type fakeRecognizer struct {
	body []byte
	err  error
}

func (r fakeRecognizer) Recognize(context.Context, platerecognizer.Image) (*platerecognizer.Result, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &platerecognizer.Result{StatusCode: 200, Body: r.body}, nil
}

var errBoom = errors.New("boom")
