// Package geoip 提供注册时的公网 IP 与国家查询
// 两个公共服务都是尽力而为的依赖，调用方对任何失败都以占位值兜底。
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wyfcoding/usermanagement/internal/user/domain"
)

const (
	defaultIPEndpoint      = "https://api.ipify.org?format=json"
	defaultCountryEndpoint = "http://ip-api.com/json/"
	defaultTimeout         = 3 * time.Second
)

// Client 基于 api.ipify.org 与 ip-api.com 的 GeoResolver 实现
type Client struct {
	httpClient      *http.Client
	ipEndpoint      string
	countryEndpoint string
	timeout         time.Duration
}

// Option Client 可选配置
type Option func(*Client)

// WithTimeout 设置单次查询的超时
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithEndpoints 覆盖查询地址（测试用）
func WithEndpoints(ipEndpoint, countryEndpoint string) Option {
	return func(c *Client) {
		c.ipEndpoint = ipEndpoint
		c.countryEndpoint = countryEndpoint
	}
}

// NewClient 创建查询客户端
func NewClient(opts ...Option) *Client {
	c := &Client{
		ipEndpoint:      defaultIPEndpoint,
		countryEndpoint: defaultCountryEndpoint,
		timeout:         defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient = &http.Client{Timeout: c.timeout}
	return c
}

var _ domain.GeoResolver = (*Client)(nil)

// PublicIP 查询调用方的公网 IP
func (c *Client) PublicIP(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var payload struct {
		IP string `json:"ip"`
	}
	if err := c.getJSON(ctx, c.ipEndpoint, &payload); err != nil {
		return "", err
	}
	if payload.IP == "" {
		return "", fmt.Errorf("empty ip in response")
	}
	return payload.IP, nil
}

// Country 根据 IP 解析国家
func (c *Client) Country(ctx context.Context, ip string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var payload struct {
		Country string `json:"country"`
	}
	if err := c.getJSON(ctx, c.countryEndpoint+url.PathEscape(ip), &payload); err != nil {
		return "", err
	}
	if payload.Country == "" {
		return "", fmt.Errorf("empty country in response")
	}
	return payload.Country, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
