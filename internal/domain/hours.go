package domain

import (
	"fmt"

	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// BusinessHours рабочие часы [Open, Close). Задаются конфигурацией при старте
type BusinessHours struct {
	Open  types.TimeString
	Close types.TimeString
}

// DefaultBusinessHours 09:00-22:00
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{Open: DefaultOpen, Close: DefaultClose}
}

// NewBusinessHours разбирает и проверяет рабочие часы
func NewBusinessHours(open, closeTime string) (BusinessHours, error) {
	o, err := types.NewTimeStringFromString(open)
	if err != nil {
		return BusinessHours{}, fmt.Errorf("open: %w", err)
	}
	c, err := types.NewTimeStringFromString(closeTime)
	if err != nil {
		return BusinessHours{}, fmt.Errorf("close: %w", err)
	}
	if !o.IsBefore(c) {
		return BusinessHours{}, fmt.Errorf("%w: open %s, close %s", ErrEndBeforeStart, o, c)
	}
	return BusinessHours{Open: o, Close: c}, nil
}

// OpenMinutes минуты от полуночи до открытия
func (h BusinessHours) OpenMinutes() int {
	m, _ := h.Open.Minutes()
	return m
}

// CloseMinutes минуты от полуночи до закрытия
func (h BusinessHours) CloseMinutes() int {
	m, _ := h.Close.Minutes()
	return m
}

// ValidateInterval проверяет интервал бронирования:
// конец позже начала, оба кратны шагу сетки, начало внутри [Open, Close), конец не позже Close
func (h BusinessHours) ValidateInterval(start, end types.TimeString) error {
	startMin, err := start.Minutes()
	if err != nil {
		return err
	}
	endMin, err := end.Minutes()
	if err != nil {
		return err
	}

	if endMin <= startMin {
		return fmt.Errorf("%w: %s-%s", ErrEndBeforeStart, start, end)
	}
	if startMin%SlotMinutes != 0 || endMin%SlotMinutes != 0 {
		return fmt.Errorf("%w: %s-%s", ErrNotAligned, start, end)
	}
	if startMin < h.OpenMinutes() || startMin >= h.CloseMinutes() {
		return fmt.Errorf("%w: %s", ErrOutsideBusinessHours, start)
	}
	if endMin > h.CloseMinutes() {
		return fmt.Errorf("%w: %s", ErrEndAfterClose, end)
	}
	return nil
}
