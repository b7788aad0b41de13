package middleware

import (
	"net/http"

	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers"
)

const msgInvalidAdminToken = "недействительный токен администратора"

// TokenValidator проверяет заголовок Authorization администратора
type TokenValidator interface {
	ValidateAdminToken(header string) error
}

// AdminAuth пропускает только запросы с корректным Bearer токеном администратора
func AdminAuth(validator TokenValidator, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := validator.ValidateAdminToken(r.Header.Get("Authorization")); err != nil {
				logger.Warn("%s %s - Admin token rejected: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidAdminToken)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
