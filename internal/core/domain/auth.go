package domain

// User - текущий пользователь, как его вернул сервис авторизации
type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// AuthTokens - результат успешного логина на стороне upstream
type AuthTokens struct {
	Token string
	User  *User
}

// LoginResult - то, что видит браузер после попытки входа
type LoginResult struct {
	Success bool   `json:"success"`
	User    *User  `json:"user,omitempty"`
	Error   string `json:"error,omitempty"`
}
