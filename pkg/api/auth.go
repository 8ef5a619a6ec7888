package api

// SignUpRequest представляет запрос на регистрацию нового пользователя
type SignUpRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль в открытом виде (только по TLS)
}

// TokenRequest представляет запрос на получение access token по паролю
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User описывает пользователя в ответах auth эндпоинтов
type User struct {
	ID    string `json:"id"`    // UUID пользователя
	Email string `json:"email"` // email пользователя
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	User        User   `json:"user"`         // владелец токена
	AccessToken string `json:"access_token"` // JWT access token
	TokenType   string `json:"token_type"`   // всегда "bearer"
	ExpiresIn   int64  `json:"expires_in"`   // время жизни access token в секундах
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// HealthResponse ответ эндпоинта проверки доступности
type HealthResponse struct {
	Status string `json:"status"`
	Time   int64  `json:"time"`
}
