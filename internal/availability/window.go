package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// ErrFetchFailed возвращается, когда не удалось получить данные хотя бы одного дня окна
var ErrFetchFailed = errors.New("availability: failed to fetch sessions")

// SessionsFetcher источник бронирований по дате (REST клиент или хранилище)
type SessionsFetcher interface {
	SessionsByDate(ctx context.Context, date time.Time) ([]domain.SessionBucket, error)
}

// StripEntry один день полосы доступности
type StripEntry struct {
	Date        time.Time
	Label       string // M/D
	FreePercent int
	Tier        Tier
}

// Window результат построения окна.
// Occupied хранится только для центральной даты: по нему блокируются кнопки слотов
type Window struct {
	Center    time.Time
	SessionID int64
	Entries   []StripEntry
	Occupied  OccupiedSet
}

// Builder строит полосу доступности на 14 дней вокруг выбранной даты
type Builder struct {
	fetcher SessionsFetcher
	slots   []types.TimeString
}

// NewBuilder создает построитель для рабочих часов
func NewBuilder(fetcher SessionsFetcher, hours domain.BusinessHours) *Builder {
	return &Builder{
		fetcher: fetcher,
		slots:   GenerateSlots(hours),
	}
}

// Slots сетка слотов, с которой работает построитель
func (b *Builder) Slots() []types.TimeString {
	return b.slots
}

// Build запрашивает все 14 дат параллельно. Ошибка любого запроса прерывает
// построение целиком, частичное окно не возвращается.
// Порядок записей соответствует смещениям -3..+10, а не порядку ответов
func (b *Builder) Build(ctx context.Context, center time.Time, sessionID int64) (*Window, error) {
	dates := WindowDates(center)
	buckets := make([][]domain.SessionBucket, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	for i, date := range dates {
		i, date := i, date
		g.Go(func() error {
			res, err := b.fetcher.SessionsByDate(gctx, date)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrFetchFailed, date.Format(domain.DateFormat), err)
			}
			buckets[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	centerDay := dates[domain.WindowDaysBefore]
	win := &Window{
		Center:    centerDay,
		SessionID: sessionID,
		Entries:   make([]StripEntry, len(dates)),
		Occupied:  OccupiedSet{},
	}

	for i, date := range dates {
		var reservations []*domain.Reservation
		if bucket := domain.FindBucket(buckets[i], sessionID); bucket != nil {
			reservations = bucket.Reservations
		}

		occupied := OccupiedSlots(reservations)
		pct := FreePercent(b.slots, occupied)
		win.Entries[i] = StripEntry{
			Date:        date,
			Label:       Label(date),
			FreePercent: pct,
			Tier:        TierFor(pct),
		}
		if i == domain.WindowDaysBefore {
			win.Occupied = occupied
		}
	}

	return win, nil
}

// WindowDates даты окна: center-3 ... center+10 (время отбрасывается)
func WindowDates(center time.Time) []time.Time {
	y, m, d := center.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	dates := make([]time.Time, 0, domain.WindowSize)
	for offset := -domain.WindowDaysBefore; offset <= domain.WindowDaysAfter; offset++ {
		dates = append(dates, day.AddDate(0, 0, offset))
	}
	return dates
}

// Label короткая подпись дня: месяц/день без ведущих нулей
func Label(date time.Time) string {
	return date.Format(domain.LabelFormat)
}
