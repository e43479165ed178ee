package application

import (
	"context"
	"time"

	"github.com/wyfcoding/pkg/contextx"

	"github.com/wyfcoding/usermanagement/internal/user/domain"
)

// AdminCommandService 用户目录管理命令服务
type AdminCommandService struct {
	repo      domain.UserRepository
	publisher domain.EventPublisher
}

// NewAdminCommandService 创建管理命令服务实例
func NewAdminCommandService(repo domain.UserRepository, publisher domain.EventPublisher) *AdminCommandService {
	return &AdminCommandService{repo: repo, publisher: publisher}
}

// UpdateRole 变更指定用户的角色
// 管理员不能变更自己的角色。
func (s *AdminCommandService) UpdateRole(ctx context.Context, principal domain.Principal, email, newRole string) error {
	if err := authorizeAdmin(principal); err != nil {
		return err
	}
	if err := guardSelfAction(principal, email); err != nil {
		return err
	}

	role, err := domain.ParseRole(newRole)
	if err != nil {
		return err
	}

	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		user, err := s.repo.GetByEmail(txCtx, email)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrNotFound
		}

		oldRole := user.Role
		user.Role = role
		if err := s.repo.Save(txCtx, user); err != nil {
			return err
		}

		if s.publisher == nil {
			return nil
		}
		event := domain.UserRoleChangedEvent{
			UserID:    user.ID,
			Email:     user.Email,
			OldRole:   oldRole,
			NewRole:   role,
			ChangedBy: principal.Email,
			Timestamp: time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.UserRoleChangedEventType, email, event)
	})
}

// DeleteUser 删除指定用户，不可恢复
// 管理员不能删除自己的账户。
func (s *AdminCommandService) DeleteUser(ctx context.Context, principal domain.Principal, email string) error {
	if err := authorizeAdmin(principal); err != nil {
		return err
	}
	if err := guardSelfAction(principal, email); err != nil {
		return err
	}

	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		user, err := s.repo.GetByEmail(txCtx, email)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrNotFound
		}

		if err := s.repo.DeleteByEmail(txCtx, email); err != nil {
			return err
		}

		if s.publisher == nil {
			return nil
		}
		event := domain.UserDeletedEvent{
			UserID:    user.ID,
			Email:     user.Email,
			DeletedBy: principal.Email,
			Timestamp: time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.UserDeletedEventType, email, event)
	})
}
