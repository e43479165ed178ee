package domain

import "time"

// UserRole 用户角色（封闭枚举）
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// ParseRole 解析角色字符串，非法取值返回 ErrInvalidRole
func ParseRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RoleAdmin, RoleUser:
		return UserRole(s), nil
	default:
		return "", ErrInvalidRole
	}
}

// UnknownValue 地理信息获取失败时的占位值
const UnknownValue = "UNKNOWN"

// User 用户账户
type User struct {
	ID           uint      `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Gender       string    `json:"gender"`
	Country      string    `json:"country"`
	IPAddress    string    `json:"ip_address"`
	Role         UserRole  `json:"role"`
}

// NewUser 创建普通用户，角色固定为 USER
func NewUser(name, email, passwordHash, gender, country, ipAddress string) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Gender:       gender,
		Country:      country,
		IPAddress:    ipAddress,
		Role:         RoleUser,
	}
}
