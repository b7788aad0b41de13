package booking

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/availability"
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/reservationapi"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// Controller пользовательский сценарий бронирования: вход, номер, выбор слота, подтверждение.
// Все состояние принадлежит контроллеру; сетевые вызовы выполняются без блокировки,
// а результат построения окна применяется только для последнего запроса
type Controller struct {
	api        ReservationAPI
	windows    WindowBuilder
	recognizer PlateRecognizer
	scanner    Scanner
	hours      domain.BusinessHours
	logger     Logger

	gen availability.Generation

	mu     sync.Mutex
	state  State
	device Device
}

func NewController(
	api ReservationAPI,
	windows WindowBuilder,
	recognizer PlateRecognizer,
	scanner Scanner,
	hours domain.BusinessHours,
	logger Logger,
) *Controller {
	return &Controller{
		api:        api,
		windows:    windows,
		recognizer: recognizer,
		scanner:    scanner,
		hours:      hours,
		logger:     logger,
		state: State{
			Step:     StepLogin,
			Duration: DefaultDurationMinutes,
		},
	}
}

// State возвращает копию текущего состояния
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Login демо-вход пользователя
func (c *Controller) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)

	c.mu.Lock()
	if c.state.Step != StepLogin {
		c.mu.Unlock()
		return ErrWrongStep
	}
	if email == "" || password == "" {
		c.state.Error = msgInvalidCredentials
		c.mu.Unlock()
		return ErrInvalidInput
	}
	c.mu.Unlock()

	resp, err := c.api.UserLogin(ctx, reservationapi.Credentials{Email: email, Password: password})
	if err != nil {
		return c.fail("Login", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Email = resp.User.Email
	c.state.Error = ""
	c.state.Step = StepPlate
	return nil
}

// SubmitPlate проверяет номер локально, затем на сервере, и переходит к выбору слота.
// Открытый сканер освобождается при уходе с шага
func (c *Controller) SubmitPlate(ctx context.Context, plate string) error {
	plate = strings.TrimSpace(plate)

	c.mu.Lock()
	if c.state.Step != StepPlate {
		c.mu.Unlock()
		return ErrWrongStep
	}
	if err := domain.ValidatePlate(plate); err != nil {
		c.state.Error = msgInvalidPlate
		c.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrInvalidPlate, err)
	}
	c.mu.Unlock()

	resp, err := c.api.Verify(ctx, reservationapi.VerifyRequest{Plate: plate})
	if err != nil {
		return c.fail("SubmitPlate", err)
	}

	c.mu.Lock()
	if !resp.Valid {
		c.state.Error = resp.Message
		c.mu.Unlock()
		return ErrInvalidPlate
	}
	c.state.Plate = plate
	c.state.Error = ""
	c.state.Step = StepSchedule
	c.mu.Unlock()

	c.releaseScanner()
	return nil
}

// ScanPlate открывает сканер, делает снимок и распознает номер.
// Устройство закрывается на любом пути выхода
func (c *Controller) ScanPlate(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.state.Step != StepPlate {
		c.mu.Unlock()
		return "", ErrWrongStep
	}
	if c.state.Scanning {
		c.mu.Unlock()
		return "", ErrScannerBusy
	}
	c.state.Scanning = true
	c.mu.Unlock()

	dev, err := c.scanner.Open(ctx)
	if err != nil {
		c.mu.Lock()
		c.state.Scanning = false
		c.mu.Unlock()
		return "", c.fail("ScanPlate", err)
	}

	c.mu.Lock()
	c.device = dev
	c.mu.Unlock()
	defer c.releaseScanner()

	img, err := dev.Capture(ctx)
	if err != nil {
		return "", c.fail("ScanPlate", err)
	}

	result, err := c.recognizer.Recognize(ctx, img)
	if err != nil {
		return "", c.fail("ScanPlate", err)
	}

	plate, err := result.Plate()
	if err != nil {
		return "", c.fail("ScanPlate", err)
	}

	c.mu.Lock()
	c.state.Plate = plate
	c.state.Error = ""
	c.mu.Unlock()
	return plate, nil
}

// SelectDate меняет дату и перестраивает полосу доступности
func (c *Controller) SelectDate(ctx context.Context, date time.Time) error {
	y, m, d := date.Date()

	c.mu.Lock()
	if c.state.Step != StepSchedule {
		c.mu.Unlock()
		return ErrWrongStep
	}
	c.state.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	c.mu.Unlock()

	return c.refreshWindow(ctx)
}

// SelectSession меняет сессию и перестраивает полосу доступности
func (c *Controller) SelectSession(ctx context.Context, sessionID int64) error {
	c.mu.Lock()
	if c.state.Step != StepSchedule {
		c.mu.Unlock()
		return ErrWrongStep
	}
	if sessionID <= 0 {
		c.state.Error = msgIncomplete
		c.mu.Unlock()
		return ErrInvalidInput
	}
	c.state.SessionID = sessionID
	c.mu.Unlock()

	return c.refreshWindow(ctx)
}

// SetDuration меняет длительность. Если начало перестает укладываться до закрытия,
// оно пересчитывается
func (c *Controller) SetDuration(minutes int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Step != StepSchedule {
		return ErrWrongStep
	}
	if minutes <= 0 || minutes%domain.SlotMinutes != 0 || minutes > c.hours.CloseMinutes()-c.hours.OpenMinutes() {
		c.state.Error = msgInvalidDuration
		return fmt.Errorf("%w: %d minutes", ErrInvalidDuration, minutes)
	}

	c.state.Duration = minutes
	c.state.Error = ""
	if c.state.Start.IsZero() {
		return nil
	}

	start, ok := availability.ReconcileStartTime(c.state.Start, minutes, c.state.Occupied, c.windows.Slots(), c.hours)
	if ok && start != c.state.Start {
		c.logger.Info("SetDuration: start moved %s -> %s for %d minutes", c.state.Start, start, minutes)
		c.state.Start = start
	}
	return nil
}

// SelectStart выбирает начало. Занятые и не укладывающиеся слоты отклоняются локально,
// окончательное решение остается за сервером
func (c *Controller) SelectStart(start types.TimeString) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Step != StepSchedule {
		return ErrWrongStep
	}
	if !slices.Contains(c.windows.Slots(), start) || !c.fits(start, c.state.Duration) || c.state.Occupied.Has(start) {
		c.state.Error = msgSlotUnavailable
		return fmt.Errorf("%w: %s", ErrSlotUnavailable, start)
	}

	c.state.Start = start
	c.state.Error = ""
	return nil
}

// Review переходит к подтверждению, когда выбор полный
func (c *Controller) Review() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Step != StepSchedule {
		return ErrWrongStep
	}
	if c.state.Date.IsZero() || c.state.SessionID == 0 || c.state.Start.IsZero() {
		c.state.Error = msgIncomplete
		return ErrIncompleteSelection
	}
	c.state.Error = ""
	c.state.Step = StepConfirm
	return nil
}

// Confirm проверяет интервал на сервере и создает бронирование.
// При конфликте сообщение сервера показывается, сценарий возвращается к выбору слота,
// повторных запросов не делается
func (c *Controller) Confirm(ctx context.Context) (*ConfirmResult, error) {
	c.mu.Lock()
	if c.state.Step != StepConfirm {
		c.mu.Unlock()
		return nil, ErrWrongStep
	}
	st := c.state
	c.mu.Unlock()

	end, err := availability.EndOf(st.Start, st.Duration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	date := st.Date.Format(domain.DateFormat)

	verdict, err := c.api.Verify(ctx, reservationapi.VerifyRequest{
		Plate:     st.Plate,
		Date:      date,
		StartTime: st.Start.String(),
		EndTime:   end.String(),
		SessionID: st.SessionID,
	})
	if err != nil {
		return nil, c.fail("Confirm", err)
	}
	if verdict.Conflict || !verdict.Valid {
		c.logger.Warn("Confirm: verify rejected: session_id=%d, %s %s-%s: %s",
			st.SessionID, date, st.Start, end, verdict.Message)
		return c.backToSchedule(verdict.Conflict, verdict.Message), nil
	}

	var email *string
	if st.Email != "" {
		email = &st.Email
	}
	created, err := c.api.CreateReservation(ctx, reservationapi.CreateRequest{
		SessionID:    st.SessionID,
		Plate:        st.Plate,
		Date:         date,
		StartTime:    st.Start.String(),
		EndTime:      end.String(),
		ContactEmail: email,
	})
	if err != nil {
		// гонка между verify и create: сервер отвечает 409
		if reservationapi.StatusOf(err) == http.StatusConflict {
			return c.backToSchedule(true, messageOf(err)), nil
		}
		return nil, c.fail("Confirm", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Created = created
	c.state.Error = ""
	c.state.Step = StepDone
	c.logger.Info("Confirm: reservation created: id=%s", created.ID)
	return &ConfirmResult{Reservation: created}, nil
}

// StartOver начинает новое бронирование с тем же номером.
// Полоса и занятость сбрасываются и строятся заново: прежние уже не учитывают созданную бронь
func (c *Controller) StartOver(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Step != StepDone {
		c.mu.Unlock()
		return ErrWrongStep
	}
	c.state.Step = StepSchedule
	c.state.Start = ""
	c.state.Created = nil
	c.state.Strip = nil
	c.state.Occupied = nil
	c.mu.Unlock()

	return c.refreshWindow(ctx)
}

// MyReservations загружает бронирования пользователя по email и номеру
func (c *Controller) MyReservations(ctx context.Context) ([]reservationapi.Reservation, error) {
	owner, err := c.owner()
	if err != nil {
		return nil, err
	}

	list, err := c.api.MyReservations(ctx, owner)
	if err != nil {
		return nil, c.fail("MyReservations", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Mine = list
	c.state.Error = ""
	return slices.Clone(list), nil
}

// CancelReservation удаляет бронирование. Локальный список фильтруется
// только после успешного ответа сервера
func (c *Controller) CancelReservation(ctx context.Context, id string) error {
	owner, err := c.owner()
	if err != nil {
		return err
	}

	if err := c.api.DeleteReservation(ctx, id, owner); err != nil {
		return c.fail("CancelReservation", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Mine = slices.DeleteFunc(slices.Clone(c.state.Mine), func(r reservationapi.Reservation) bool {
		return r.ID == id
	})
	c.state.Error = ""
	return nil
}

// Close освобождает сканер и отбрасывает незавершенные построения окна
func (c *Controller) Close() {
	c.gen.Next()
	c.releaseScanner()
}

func (c *Controller) refreshWindow(ctx context.Context) error {
	c.mu.Lock()
	date, sessionID := c.state.Date, c.state.SessionID
	ticket := c.gen.Next()
	c.mu.Unlock()

	if date.IsZero() || sessionID == 0 {
		return nil
	}

	win, err := c.windows.Build(ctx, date, sessionID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.gen.IsCurrent(ticket) {
		c.logger.Info("refreshWindow: stale result dropped: date=%s, session_id=%d",
			date.Format(domain.DateFormat), sessionID)
		return nil
	}
	if err != nil {
		c.logger.Warn("refreshWindow: failed to build window: %v", err)
		c.state.Error = messageOf(err)
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	c.state.Strip = win.Entries
	c.state.Occupied = win.Occupied
	c.state.Error = ""

	if !c.state.Start.IsZero() {
		start, ok := availability.ReconcileOnOccupancyChange(c.state.Start, c.state.Duration, win.Occupied, c.windows.Slots(), c.hours)
		if ok && start != c.state.Start {
			c.logger.Info("refreshWindow: start moved %s -> %s after occupancy change", c.state.Start, start)
			c.state.Start = start
		}
	}
	return nil
}

func (c *Controller) backToSchedule(conflict bool, message string) *ConfirmResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Step = StepSchedule
	c.state.Error = message
	return &ConfirmResult{Conflict: conflict, Message: message}
}

func (c *Controller) owner() (reservationapi.OwnerFilter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Email == "" && c.state.Plate == "" {
		return reservationapi.OwnerFilter{}, ErrWrongStep
	}
	return reservationapi.OwnerFilter{Email: c.state.Email, Plate: c.state.Plate}, nil
}

func (c *Controller) fits(start types.TimeString, duration int) bool {
	m, err := start.Minutes()
	if err != nil {
		return false
	}
	return m+duration <= c.hours.CloseMinutes()
}

func (c *Controller) fail(op string, err error) error {
	c.logger.Warn("%s: %v", op, err)
	c.mu.Lock()
	c.state.Error = messageOf(err)
	c.mu.Unlock()
	return fmt.Errorf("%w: %s: %w", ErrRequestFailed, op, err)
}

func (c *Controller) releaseScanner() {
	c.mu.Lock()
	dev := c.device
	c.device = nil
	c.state.Scanning = false
	c.mu.Unlock()

	if dev == nil {
		return
	}
	if err := dev.Close(); err != nil {
		c.logger.Warn("releaseScanner: failed to close device: %v", err)
	}
}
