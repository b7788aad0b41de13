package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/EVCharge-ReservationService/internal/service/auth/models"
)

// UUIDTokens токены пользователей на основе UUID v4
type UUIDTokens struct{}

// NewToken возвращает новый случайный токен
func (UUIDTokens) NewToken() string {
	return uuid.NewString()
}

// Service вход администратора и демо-вход пользователя.
// Администратор один, его учетные данные и токен задаются конфигурацией
type Service struct {
	admin  Credentials
	tokens TokenGenerator
	logger Logger
}

// NewService создает новый экземпляр сервиса
func NewService(admin Credentials, logger Logger) *Service {
	return &Service{
		admin:  admin,
		tokens: UUIDTokens{},
		logger: logger,
	}
}

// AdminLogin проверяет учетные данные и возвращает статический токен администратора
func (s *Service) AdminLogin(req *models.LoginRequest) (*models.AdminLoginResponse, error) {
	emailOK := equal(req.Email, s.admin.Email)
	passwordOK := equal(req.Password, s.admin.Password)
	if !emailOK || !passwordOK {
		s.logger.Warn("AdminLogin: invalid credentials for %q", req.Email)
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("AdminLogin: admin %s logged in", req.Email)
	return &models.AdminLoginResponse{
		Token: s.admin.Token,
		Admin: models.Account{Email: req.Email},
	}, nil
}

// UserLogin демо-вход: пароль не проверяется, нужны только оба поля
func (s *Service) UserLogin(req *models.LoginRequest) (*models.UserLoginResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrInvalidInput
	}

	return &models.UserLoginResponse{
		Token: s.tokens.NewToken(),
		User:  models.Account{Email: req.Email},
	}, nil
}

// ValidateAdminToken проверяет заголовок Authorization: Bearer <token>.
// Схема сравнивается без учета регистра
func (s *Service) ValidateAdminToken(header string) error {
	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "bearer") || s.admin.Token == "" || !equal(token, s.admin.Token) {
		return ErrInvalidToken
	}
	return nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
