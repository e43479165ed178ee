package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wyfcoding/usermanagement/internal/user/domain"
	"github.com/wyfcoding/usermanagement/internal/user/usertest"
)

func newAuthService(repo *usertest.MemoryUserRepo, sessions *usertest.MemorySessionRepo, geo domain.GeoResolver, pub domain.EventPublisher) *AuthCommandService {
	return NewAuthCommandService(repo, sessions, geo, pub, time.Hour)
}

func TestRegister_Success(t *testing.T) {
	repo := usertest.NewMemoryUserRepo()
	pub := &usertest.RecordingPublisher{}
	geo := &usertest.StubGeoResolver{IP: "203.0.113.7", CountryVal: "Germany"}
	svc := newAuthService(repo, usertest.NewMemorySessionRepo(), geo, pub)

	id, err := svc.Register(context.Background(), RegisterCommand{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
		Gender:   "F",
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	stored, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.RoleUser, stored.Role)
	assert.Equal(t, "203.0.113.7", stored.IPAddress)
	assert.Equal(t, "Germany", stored.Country)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("supersecret")))

	events := pub.ByType(domain.UserRegisteredEventType)
	require.Len(t, events, 1)
	assert.True(t, events[0].InTx)
	assert.Equal(t, "alice@example.com", events[0].Key)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := usertest.NewMemoryUserRepo()
	svc := newAuthService(repo, usertest.NewMemorySessionRepo(), &usertest.StubGeoResolver{}, &usertest.RecordingPublisher{})

	cmd := RegisterCommand{Name: "alice", Email: "alice@example.com", Password: "supersecret"}
	_, err := svc.Register(context.Background(), cmd)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), cmd)
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestRegister_DuplicateCaughtAtSave(t *testing.T) {
	// 预检查失效（模拟两个请求同时通过预检查），唯一性由存储约束仲裁
	repo := usertest.NewMemoryUserRepo()
	repo.ExistsReportsMissing = true
	svc := newAuthService(repo, usertest.NewMemorySessionRepo(), &usertest.StubGeoResolver{}, &usertest.RecordingPublisher{})

	cmd := RegisterCommand{Name: "alice", Email: "alice@example.com", Password: "supersecret"}
	_, err := svc.Register(context.Background(), cmd)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), cmd)
	assert.ErrorIs(t, err, domain.ErrEmailExists)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	repo := usertest.NewMemoryUserRepo()
	svc := newAuthService(repo, usertest.NewMemorySessionRepo(), &usertest.StubGeoResolver{}, &usertest.RecordingPublisher{})

	cmd := RegisterCommand{Name: "alice", Email: "alice@example.com", Password: "supersecret"}
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), cmd)
		}(i)
	}
	wg.Wait()

	var succeeded, duplicated int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrEmailExists):
			duplicated++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, duplicated)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegister_GeoLookupFailureFallsBackToUnknown(t *testing.T) {
	repo := usertest.NewMemoryUserRepo()
	geo := &usertest.StubGeoResolver{IPErr: errors.New("timeout"), CountryErr: errors.New("timeout")}
	svc := newAuthService(repo, usertest.NewMemorySessionRepo(), geo, &usertest.RecordingPublisher{})

	_, err := svc.Register(context.Background(), RegisterCommand{
		Name:     "bob",
		Email:    "bob@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	stored, err := repo.GetByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.UnknownValue, stored.IPAddress)
	assert.Equal(t, domain.UnknownValue, stored.Country)
}

func TestRegister_CountryLookupFailureKeepsIP(t *testing.T) {
	repo := usertest.NewMemoryUserRepo()
	geo := &usertest.StubGeoResolver{IP: "203.0.113.7", CountryErr: errors.New("unreachable")}
	svc := newAuthService(repo, usertest.NewMemorySessionRepo(), geo, &usertest.RecordingPublisher{})

	_, err := svc.Register(context.Background(), RegisterCommand{
		Name:     "carol",
		Email:    "carol@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	stored, _ := repo.GetByEmail(context.Background(), "carol@example.com")
	require.NotNil(t, stored)
	assert.Equal(t, "203.0.113.7", stored.IPAddress)
	assert.Equal(t, domain.UnknownValue, stored.Country)
}

func TestLogin_Success(t *testing.T) {
	repo := usertest.NewMemoryUserRepo()
	sessions := usertest.NewMemorySessionRepo()
	svc := newAuthService(repo, sessions, &usertest.StubGeoResolver{}, &usertest.RecordingPublisher{})

	_, err := svc.Register(context.Background(), RegisterCommand{
		Name: "alice", Email: "alice@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), LoginCommand{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, "alice@example.com", result.Email)

	session, err := sessions.Get(context.Background(), result.Token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "alice@example.com", session.Email)
	assert.Equal(t, domain.RoleUser, session.Role)
	assert.False(t, session.IsExpired())
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newAuthService(usertest.NewMemoryUserRepo(), usertest.NewMemorySessionRepo(), &usertest.StubGeoResolver{}, &usertest.RecordingPublisher{})

	_, err := svc.Login(context.Background(), LoginCommand{Email: "ghost@example.com", Password: "whatever123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := usertest.NewMemoryUserRepo()
	svc := newAuthService(repo, usertest.NewMemorySessionRepo(), &usertest.StubGeoResolver{}, &usertest.RecordingPublisher{})

	_, err := svc.Register(context.Background(), RegisterCommand{
		Name: "alice", Email: "alice@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginCommand{Email: "alice@example.com", Password: "wrongpassword"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_RepositoryFailure(t *testing.T) {
	repo := usertest.NewMemoryUserRepo()
	repo.GetErr = errors.New("connection refused")
	svc := newAuthService(repo, usertest.NewMemorySessionRepo(), &usertest.StubGeoResolver{}, &usertest.RecordingPublisher{})

	_, err := svc.Login(context.Background(), LoginCommand{Email: "alice@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestLogin_SessionSaveFailure(t *testing.T) {
	repo := usertest.NewMemoryUserRepo()
	sessions := usertest.NewMemorySessionRepo()
	sessions.SaveErr = errors.New("redis down")
	svc := newAuthService(repo, sessions, &usertest.StubGeoResolver{}, &usertest.RecordingPublisher{})

	_, err := svc.Register(context.Background(), RegisterCommand{
		Name: "alice", Email: "alice@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginCommand{Email: "alice@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestLogout_RemovesSession(t *testing.T) {
	repo := usertest.NewMemoryUserRepo()
	sessions := usertest.NewMemorySessionRepo()
	svc := newAuthService(repo, sessions, &usertest.StubGeoResolver{}, &usertest.RecordingPublisher{})

	_, err := svc.Register(context.Background(), RegisterCommand{
		Name: "alice", Email: "alice@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), LoginCommand{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.Token))

	session, err := sessions.Get(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Nil(t, session)
}
