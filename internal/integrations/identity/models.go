package identity

// Role роль пользователя, вычисленная провайдером идентификации
// Движок бронирования аутентификацией не занимается — только
// проверяет уже разрешенные роли
type Role string

const (
	RoleGuest  Role = "guest"
	RoleMember Role = "member"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

// User модель пользователя из провайдера идентификации
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// IsAdmin проверяет административную роль
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ErrorResponse модель ошибки от провайдера идентификации
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
