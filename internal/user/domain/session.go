package domain

import (
	"context"
	"strings"
	"time"
)

// AuthSession 用户认证会话
type AuthSession struct {
	Token     string    `json:"token"`
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *AuthSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Principal 认证通过后建立的调用者身份，授权检查的输入
type Principal struct {
	UserID uint
	Email  string
	Role   UserRole
}

// IsAdmin 角色检查
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsSelf 判断目标邮箱是否为调用者自身（大小写不敏感）
func (p Principal) IsSelf(email string) bool {
	return strings.EqualFold(p.Email, email)
}

// SessionRepository 会话仓储接口（仅实现 Redis 版本）
type SessionRepository interface {
	Save(ctx context.Context, session *AuthSession) error
	Get(ctx context.Context, token string) (*AuthSession, error)
	Delete(ctx context.Context, token string) error
}
