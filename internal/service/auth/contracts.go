package auth

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TokenGenerator выдает непрозрачные токены пользователей
type TokenGenerator interface {
	NewToken() string
}

// Credentials учетные данные администратора из конфигурации
type Credentials struct {
	Email    string
	Password string
	Token    string
}
