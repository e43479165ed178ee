// Package usertest 提供领域端口的内存实现，供各层测试复用。
package usertest

import (
	"context"
	"sync"

	"github.com/wyfcoding/usermanagement/internal/user/domain"
)

var (
	_ domain.UserRepository    = (*MemoryUserRepo)(nil)
	_ domain.SessionRepository = (*MemorySessionRepo)(nil)
	_ domain.GeoResolver       = (*StubGeoResolver)(nil)
	_ domain.EventPublisher    = (*RecordingPublisher)(nil)
)

// MemoryUserRepo 基于内存的用户仓储，事务退化为直接调用
// 唯一性在 Save 时强制，与真实存储由约束仲裁重复的行为一致。
type MemoryUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID uint

	SaveErr  error
	GetErr   error
	CountErr error

	// ExistsReportsMissing 让 ExistsByEmail 恒报不存在，
	// 用于构造预检查失效、重复交由 Save 仲裁的竞争场景。
	ExistsReportsMissing bool
}

// NewMemoryUserRepo 创建内存用户仓储
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]*domain.User)}
}

func (r *MemoryUserRepo) BeginTx(ctx context.Context) any { return nil }
func (r *MemoryUserRepo) CommitTx(tx any) error           { return nil }
func (r *MemoryUserRepo) RollbackTx(tx any) error         { return nil }

func (r *MemoryUserRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *MemoryUserRepo) Save(ctx context.Context, user *domain.User) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		if _, ok := r.users[user.Email]; ok {
			return domain.ErrEmailExists
		}
		r.nextID++
		user.ID = r.nextID
	}
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *MemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepo) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.GetErr != nil {
		return false, r.GetErr
	}
	if r.ExistsReportsMissing {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[email]
	return ok, nil
}

func (r *MemoryUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryUserRepo) DeleteByEmail(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[email]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, email)
	return nil
}

func (r *MemoryUserRepo) Count(ctx context.Context) (int64, error) {
	if r.CountErr != nil {
		return 0, r.CountErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// MemorySessionRepo 基于内存的会话仓储
type MemorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.AuthSession

	SaveErr error
}

// NewMemorySessionRepo 创建内存会话仓储
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{sessions: make(map[string]*domain.AuthSession)}
}

func (r *MemorySessionRepo) Save(ctx context.Context, session *domain.AuthSession) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Token] = session
	return nil
}

func (r *MemorySessionRepo) Get(ctx context.Context, token string) (*domain.AuthSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (r *MemorySessionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// StubGeoResolver 可注入失败的地理信息解析桩
type StubGeoResolver struct {
	IP         string
	IPErr      error
	CountryVal string
	CountryErr error
}

func (g *StubGeoResolver) PublicIP(ctx context.Context) (string, error) {
	return g.IP, g.IPErr
}

func (g *StubGeoResolver) Country(ctx context.Context, ip string) (string, error) {
	return g.CountryVal, g.CountryErr
}

// PublishedEvent RecordingPublisher 记录的一次发布
type PublishedEvent struct {
	EventType string
	Key       string
	Payload   any
	InTx      bool
}

// RecordingPublisher 记录发布的事件
type RecordingPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

func (p *RecordingPublisher) Publish(ctx context.Context, eventType, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{EventType: eventType, Key: key, Payload: event})
	return nil
}

func (p *RecordingPublisher) PublishInTx(ctx context.Context, tx any, eventType, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{EventType: eventType, Key: key, Payload: event, InTx: true})
	return nil
}

// ByType 返回指定类型的全部事件
func (p *RecordingPublisher) ByType(eventType string) []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []PublishedEvent
	for _, e := range p.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}
