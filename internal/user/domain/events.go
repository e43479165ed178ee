package domain

import (
	"context"
	"time"
)

const (
	UserRegisteredEventType  = "user.registered"
	UserLoggedInEventType    = "user.logged_in"
	UserRoleChangedEventType = "user.role_changed"
	UserDeletedEventType     = "user.deleted"
)

// UserRegisteredEvent 用户注册事件
type UserRegisteredEvent struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	Country   string    `json:"country"`
	Timestamp time.Time `json:"timestamp"`
}

// UserLoggedInEvent 用户登录事件
type UserLoggedInEvent struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// UserRoleChangedEvent 用户角色变更事件
type UserRoleChangedEvent struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	OldRole   UserRole  `json:"old_role"`
	NewRole   UserRole  `json:"new_role"`
	ChangedBy string    `json:"changed_by"`
	Timestamp time.Time `json:"timestamp"`
}

// UserDeletedEvent 用户删除事件
type UserDeletedEvent struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	DeletedBy string    `json:"deleted_by"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 事件发布者接口（Outbox 实现）
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, event any) error
	PublishInTx(ctx context.Context, tx any, eventType, key string, event any) error
}
