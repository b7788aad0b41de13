package user_login

import "github.com/m04kA/EVCharge-ReservationService/internal/service/auth/models"

type AuthService interface {
	UserLogin(req *models.LoginRequest) (*models.UserLoginResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
