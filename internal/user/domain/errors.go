package domain

import "errors"

var (
	// ErrEmailExists 邮箱已被注册
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials 凭证无效（不区分"用户不存在"与"密码错误"）
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAuthentication 登录过程中的非预期失败
	ErrAuthentication = errors.New("unexpected authentication error")

	// ErrForbidden 角色权限不足
	ErrForbidden = errors.New("admin role required")

	// ErrSelfAction 管理员不能对自己的账户执行该操作
	ErrSelfAction = errors.New("cannot target your own account")

	// ErrNotFound 用户不存在
	ErrNotFound = errors.New("user not found")

	// ErrInvalidRole 角色取值非法
	ErrInvalidRole = errors.New("invalid role")
)
