package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/availability"
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/reservationapi"
)

// DashboardState снимок панели администратора
type DashboardState struct {
	Date      time.Time
	Sessions  []domain.SessionBucket
	Error     string
	UpdatedAt time.Time
}

// Dashboard панель администратора: бронирования по сессиям на дату с автообновлением
type Dashboard struct {
	api    AdminAPI
	logger Logger
	now    func() time.Time

	gen availability.Generation

	mu        sync.Mutex
	token     string
	date      time.Time
	sessions  []domain.SessionBucket
	errMsg    string
	updatedAt time.Time
}

func NewDashboard(api AdminAPI, logger Logger) *Dashboard {
	return &Dashboard{
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

// Login вход администратора; токен хранится в панели
func (d *Dashboard) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		d.setError(msgInvalidCredentials)
		return ErrInvalidInput
	}

	resp, err := d.api.AdminLogin(ctx, reservationapi.Credentials{Email: email, Password: password})
	if err != nil {
		return d.fail("Login", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.token = resp.Token
	d.errMsg = ""
	d.logger.Info("Dashboard: admin %s logged in", resp.Admin.Email)
	return nil
}

// SetDate меняет дату и сразу обновляет данные
func (d *Dashboard) SetDate(ctx context.Context, date time.Time) error {
	y, m, day := date.Date()

	d.mu.Lock()
	d.date = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	d.mu.Unlock()

	return d.Refresh(ctx)
}

// Refresh загружает бронирования на текущую дату.
// Ответ, пришедший после более нового запроса, отбрасывается
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	token, date := d.token, d.date
	ticket := d.gen.Next()
	d.mu.Unlock()

	if token == "" {
		return ErrNotLoggedIn
	}
	if date.IsZero() {
		date = d.today()
	}

	sessions, err := d.api.AdminSessionsByDate(ctx, token, date)

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.gen.IsCurrent(ticket) {
		d.logger.Info("Dashboard: stale refresh dropped: date=%s", date.Format(domain.DateFormat))
		return nil
	}
	if err != nil {
		d.logger.Warn("Dashboard: failed to refresh: %v", err)
		d.errMsg = messageOf(err)
		return fmt.Errorf("%w: Refresh: %w", ErrRequestFailed, err)
	}

	d.date = date
	d.sessions = sessions
	d.errMsg = ""
	d.updatedAt = d.now()
	return nil
}

// Delete удаляет бронирование; из локального списка оно убирается только после успеха
func (d *Dashboard) Delete(ctx context.Context, id string) error {
	d.mu.Lock()
	token := d.token
	d.mu.Unlock()

	if token == "" {
		return ErrNotLoggedIn
	}

	if err := d.api.AdminDelete(ctx, token, id); err != nil {
		return d.fail("Delete", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions = withoutReservation(d.sessions, id)
	d.errMsg = ""
	return nil
}

// Run обновляет панель с периодом every до отмены ctx.
// Ошибки обновления показываются в состоянии и не останавливают цикл
func (d *Dashboard) Run(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		return fmt.Errorf("%w: refresh interval must be positive, got %s", ErrInvalidInput, every)
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if err := d.Refresh(ctx); err != nil {
			if errors.Is(err, ErrNotLoggedIn) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// State возвращает копию состояния панели
func (d *Dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DashboardState{
		Date:      d.date,
		Sessions:  slices.Clone(d.sessions),
		Error:     d.errMsg,
		UpdatedAt: d.updatedAt,
	}
}

func (d *Dashboard) today() time.Time {
	y, m, day := d.now().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func (d *Dashboard) setError(msg string) {
	d.mu.Lock()
	d.errMsg = msg
	d.mu.Unlock()
}

func (d *Dashboard) fail(op string, err error) error {
	d.logger.Warn("Dashboard: %s: %v", op, err)
	d.setError(messageOf(err))
	return fmt.Errorf("%w: %s: %w", ErrRequestFailed, op, err)
}

// withoutReservation новый список сессий без бронирования id; исходный не меняется
func withoutReservation(sessions []domain.SessionBucket, id string) []domain.SessionBucket {
	out := make([]domain.SessionBucket, 0, len(sessions))
	for _, s := range sessions {
		s.Reservations = slices.DeleteFunc(slices.Clone(s.Reservations), func(r *domain.Reservation) bool {
			return r.ID == id
		})
		out = append(out, s)
	}
	return out
}
