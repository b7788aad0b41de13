package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizePlate убирает все пробельные символы и переводит в верхний регистр
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, plate))
}

// ValidatePlate проверяет длину номера после нормализации
func ValidatePlate(plate string) error {
	n := utf8.RuneCountInString(NormalizePlate(plate))
	if n < MinPlateLength {
		return fmt.Errorf("%w: %d < %d", ErrPlateTooShort, n, MinPlateLength)
	}
	if n > MaxPlateLength {
		return fmt.Errorf("%w: %d > %d", ErrPlateTooLong, n, MaxPlateLength)
	}
	return nil
}

// NormalizeEmail обрезает пробелы и приводит к нижнему регистру; пустой email -> nil
func NormalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}
