package application

import (
	"context"

	"github.com/wyfcoding/usermanagement/internal/user/domain"
)

// UserQueryService 用户查询服务
type UserQueryService struct {
	repo        domain.UserRepository
	sessionRepo domain.SessionRepository
}

// NewUserQueryService 创建用户查询服务实例
func NewUserQueryService(repo domain.UserRepository, sessionRepo domain.SessionRepository) *UserQueryService {
	return &UserQueryService{repo: repo, sessionRepo: sessionRepo}
}

// GetUserByID 根据ID获取用户，未命中返回 ErrNotFound
func (s *UserQueryService) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// GetUserByEmail 根据邮箱获取用户，未命中返回 ErrNotFound
func (s *UserQueryService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// ListUsers 列出全部用户
func (s *UserQueryService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// GetSession 根据 Token 获取会话
func (s *UserQueryService) GetSession(ctx context.Context, token string) (*domain.AuthSession, error) {
	return s.sessionRepo.Get(ctx, token)
}
