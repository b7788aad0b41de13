package admin_login

import "github.com/m04kA/EVCharge-ReservationService/internal/service/auth/models"

type AuthService interface {
	AdminLogin(req *models.LoginRequest) (*models.AdminLoginResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
