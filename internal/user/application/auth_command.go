package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/logging"
	"golang.org/x/crypto/bcrypt"

	"github.com/wyfcoding/usermanagement/internal/user/domain"
)

// RegisterCommand 注册命令
type RegisterCommand struct {
	Name     string
	Email    string
	Password string
	Gender   string
}

// LoginCommand 登录命令
type LoginCommand struct {
	Email    string
	Password string
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string
	Email     string
	ExpiresAt int64
}

// AuthCommandService 认证命令服务
type AuthCommandService struct {
	repo        domain.UserRepository
	sessionRepo domain.SessionRepository
	geo         domain.GeoResolver
	publisher   domain.EventPublisher
	sessionTTL  time.Duration
}

// NewAuthCommandService 创建认证命令服务实例
func NewAuthCommandService(
	repo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	geo domain.GeoResolver,
	publisher domain.EventPublisher,
	sessionTTL time.Duration,
) *AuthCommandService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthCommandService{
		repo:        repo,
		sessionRepo: sessionRepo,
		geo:         geo,
		publisher:   publisher,
		sessionTTL:  sessionTTL,
	}
}

// Register 处理用户注册
// 唯一性以存储层约束为准，预检查只是快速路径；地理信息查询失败不会中断注册。
func (s *AuthCommandService) Register(ctx context.Context, cmd RegisterCommand) (uint, error) {
	exists, err := s.repo.ExistsByEmail(ctx, cmd.Email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, domain.ErrEmailExists
	}

	ip, country := s.resolveGeo(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	user := domain.NewUser(cmd.Name, cmd.Email, string(hash), cmd.Gender, country, ip)
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Save(txCtx, user); err != nil {
			return err
		}

		if s.publisher == nil {
			return nil
		}
		event := domain.UserRegisteredEvent{
			UserID:    user.ID,
			Email:     user.Email,
			Role:      user.Role,
			Country:   user.Country,
			Timestamp: time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.UserRegisteredEventType, cmd.Email, event)
	})
	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// resolveGeo 两次独立的尽力查询，各自失败都以 UNKNOWN 兜底
func (s *AuthCommandService) resolveGeo(ctx context.Context) (string, string) {
	ip, country := domain.UnknownValue, domain.UnknownValue
	if s.geo == nil {
		return ip, country
	}

	if v, err := s.geo.PublicIP(ctx); err != nil {
		logging.Warn(ctx, "public ip lookup failed", "error", err)
	} else if v != "" {
		ip = v
	}

	if v, err := s.geo.Country(ctx, ip); err != nil {
		logging.Warn(ctx, "country lookup failed", "ip", ip, "error", err)
	} else if v != "" {
		country = v
	}

	return ip, country
}

// Login 处理用户登录
// 未知邮箱与密码错误统一返回 ErrInvalidCredentials，其余失败归为 ErrAuthentication。
func (s *AuthCommandService) Login(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		logging.Error(ctx, "login lookup failed", "error", err)
		return nil, domain.ErrAuthentication
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(s.sessionTTL)
	session := &domain.AuthSession{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		logging.Error(ctx, "session save failed", "error", err)
		return nil, domain.ErrAuthentication
	}

	if s.publisher != nil {
		event := domain.UserLoggedInEvent{
			UserID:    user.ID,
			Email:     user.Email,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, domain.UserLoggedInEventType, cmd.Email, event)
	}

	return &LoginResult{Token: token, Email: user.Email, ExpiresAt: expiresAt.Unix()}, nil
}

// Logout 删除会话
func (s *AuthCommandService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}
