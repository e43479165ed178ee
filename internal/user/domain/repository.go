package domain

import "context"

// UserRepository 用户仓储接口
// GetByEmail/GetByID 未命中返回 (nil, nil)；重复邮箱由 Save 翻译为 ErrEmailExists。
type UserRepository interface {
	BeginTx(ctx context.Context) any
	CommitTx(tx any) error
	RollbackTx(tx any) error
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	Save(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*User, error)
	DeleteByEmail(ctx context.Context, email string) error
	Count(ctx context.Context) (int64, error)
}
