package auth

import "errors"

var (
	// ErrInvalidCredentials возвращается при неверном email или пароле
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidInput возвращается, когда не заполнены обязательные поля
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidToken возвращается при неверном токене администратора
	ErrInvalidToken = errors.New("invalid admin token")
)
