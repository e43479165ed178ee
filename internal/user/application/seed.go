package application

import (
	"context"
	"errors"

	"github.com/wyfcoding/pkg/logging"
	"golang.org/x/crypto/bcrypt"

	"github.com/wyfcoding/usermanagement/internal/user/domain"
)

// EnsureAdmin 启动时的一次性管理员播种
// 仅当用户表为空时创建一个 ADMIN 账户，重复调用是幂等的。
func (s *AuthCommandService) EnsureAdmin(ctx context.Context, email, password string) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logging.Info(ctx, "users already exist, skipping admin seeding")
		return nil
	}

	if email == "" || password == "" {
		return errors.New("admin bootstrap credentials are not configured")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: string(hash),
		Country:      domain.UnknownValue,
		IPAddress:    domain.UnknownValue,
		Role:         domain.RoleAdmin,
	}
	if err := s.repo.Save(ctx, admin); err != nil {
		return err
	}

	logging.Info(ctx, "admin user seeded", "email", email)
	return nil
}
