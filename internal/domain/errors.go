package domain

import "errors"

var (
	// ErrEndBeforeStart время окончания не позже времени начала
	ErrEndBeforeStart = errors.New("domain: end time must be after start time")

	// ErrNotAligned время не кратно шагу сетки
	ErrNotAligned = errors.New("domain: time is not aligned to the slot grid")

	// ErrOutsideBusinessHours начало вне рабочих часов
	ErrOutsideBusinessHours = errors.New("domain: start time is outside business hours")

	// ErrEndAfterClose окончание позже закрытия
	ErrEndAfterClose = errors.New("domain: end time is after closing time")

	// ErrPlateTooShort номер короче минимальной длины
	ErrPlateTooShort = errors.New("domain: plate is too short")

	// ErrPlateTooLong номер длиннее допустимого
	ErrPlateTooLong = errors.New("domain: plate is too long")
)
