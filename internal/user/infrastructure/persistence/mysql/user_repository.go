package mysql

import (
	"context"
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"

	"github.com/wyfcoding/usermanagement/internal/user/domain"
)

const mysqlDuplicateEntry = 1062

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// --- tx helpers ---

func (r *userRepository) BeginTx(ctx context.Context) any {
	return r.db.WithContext(ctx).Begin()
}

func (r *userRepository) CommitTx(tx any) error {
	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return errors.New("invalid transaction")
	}
	return gormTx.Commit().Error
}

func (r *userRepository) RollbackTx(tx any) error {
	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return errors.New("invalid transaction")
	}
	return gormTx.Rollback().Error
}

func (r *userRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

// Save 插入或更新用户
// 唯一约束冲突（并发注册同一邮箱）翻译为 domain.ErrEmailExists。
func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	db := r.getDB(ctx)
	model := toUserModel(user)
	if model.ID == 0 {
		if err := db.WithContext(ctx).Create(model).Error; err != nil {
			return translateError(err)
		}
		user.ID = model.ID
		user.CreatedAt = model.CreatedAt
		user.UpdatedAt = model.UpdatedAt
		return nil
	}

	err := db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":          model.Name,
			"email":         model.Email,
			"password_hash": model.PasswordHash,
			"gender":        model.Gender,
			"country":       model.Country,
			"ip_address":    model.IPAddress,
			"role":          model.Role,
		}).Error
	return translateError(err)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserModel
	err := r.getDB(ctx).WithContext(ctx).Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toUser(&model), nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var model UserModel
	err := r.getDB(ctx).WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toUser(&model), nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.getDB(ctx).WithContext(ctx).
		Model(&UserModel{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	var models []UserModel
	if err := r.getDB(ctx).WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(models))
	for i := range models {
		users = append(users, toUser(&models[i]))
	}
	return users, nil
}

func (r *userRepository) DeleteByEmail(ctx context.Context, email string) error {
	result := r.getDB(ctx).WithContext(ctx).Where("email = ?", email).Delete(&UserModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.getDB(ctx).WithContext(ctx).Model(&UserModel{}).Count(&count).Error
	return count, err
}

func (r *userRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

// translateError 把存储层的唯一约束冲突翻译为领域错误
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrEmailExists
	}
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return domain.ErrEmailExists
	}
	return err
}
