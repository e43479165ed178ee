package application

import "github.com/wyfcoding/usermanagement/internal/user/domain"

// authorizeAdmin 角色检查，在任何其他逻辑之前执行
func authorizeAdmin(p domain.Principal) error {
	if !p.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// guardSelfAction 自操作检查，仅用于删除与角色变更
// 角色检查通过后、任何存储写入之前执行；邮箱比较大小写不敏感。
func guardSelfAction(p domain.Principal, targetEmail string) error {
	if p.IsSelf(targetEmail) {
		return domain.ErrSelfAction
	}
	return nil
}
