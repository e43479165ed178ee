package domain

import "context"

// GeoResolver 注册时的地理信息查询接口
// 两次查询彼此独立，调用方对任何失败都以 UnknownValue 兜底。
type GeoResolver interface {
	PublicIP(ctx context.Context) (string, error)
	Country(ctx context.Context, ip string) (string, error)
}
