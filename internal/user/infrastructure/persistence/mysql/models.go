package mysql

import (
	"time"

	"github.com/wyfcoding/usermanagement/internal/user/domain"
)

// UserModel MySQL 用户表映射
type UserModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
	Name         string    `gorm:"column:name;type:varchar(100)"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null"`
	Gender       string    `gorm:"column:gender;type:varchar(20)"`
	Country      string    `gorm:"column:country;type:varchar(100);default:'UNKNOWN'"`
	IPAddress    string    `gorm:"column:ip_address;type:varchar(45);default:'UNKNOWN'"`
	Role         string    `gorm:"column:role;type:varchar(20);default:'USER';not null"`
}

func (UserModel) TableName() string {
	return "users"
}

func toUserModel(user *domain.User) *UserModel {
	if user == nil {
		return nil
	}
	return &UserModel{
		ID:           user.ID,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Gender:       user.Gender,
		Country:      user.Country,
		IPAddress:    user.IPAddress,
		Role:         string(user.Role),
	}
}

func toUser(model *UserModel) *domain.User {
	if model == nil {
		return nil
	}
	return &domain.User{
		ID:           model.ID,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
		Name:         model.Name,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Gender:       model.Gender,
		Country:      model.Country,
		IPAddress:    model.IPAddress,
		Role:         domain.UserRole(model.Role),
	}
}
