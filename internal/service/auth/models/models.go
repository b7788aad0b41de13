package models

// LoginRequest логин и пароль
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Account учетная запись в ответе
type Account struct {
	Email string `json:"email"`
}

// AdminLoginResponse ответ на вход администратора
type AdminLoginResponse struct {
	Token string  `json:"token"`
	Admin Account `json:"admin"`
}

// UserLoginResponse ответ на демо-вход пользователя
type UserLoginResponse struct {
	Token string  `json:"token"`
	User  Account `json:"user"`
}
