package auth

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/fastcommand/finance-backend/pkg/auth"
	"github.com/fastcommand/finance-backend/pkg/auth/session"
	"github.com/fastcommand/finance-backend/pkg/config"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	"github.com/fastcommand/finance-backend/pkg/enums"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
	"github.com/fastcommand/finance-backend/pkg/logger"
	"github.com/fastcommand/finance-backend/pkg/security"
)

type fakeUserRepo struct {
	user        *models.User
	lastLoginAt *time.Time
}

func (f *fakeUserRepo) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	if f.user == nil || f.user.Phone != phone {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.user
	return &copied, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.lastLoginAt = &at
	return nil
}

type fakeSessionManager struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (f *fakeSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-" + accessID, nil
}

func (f *fakeSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if f.rotateErr != nil {
		return "", "", f.rotateErr
	}
	return "rotated-" + oldAccessID, "refresh-rotated", nil
}

func (f *fakeSessionManager) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

type fakeLimiter struct {
	allow bool
	err   error
}

func (f *fakeLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	return f.allow, 0, f.err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 30}
}

func newTestService(t *testing.T, repo *fakeUserRepo, sessions *fakeSessionManager, limiter *fakeLimiter) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "auth-test", Output: io.Discard})
	svc, err := NewService(repo, sessions, limiter, testJWTConfig(), config.AuthRateLimitConfig{
		LoginWindow:        time.Minute,
		LoginIdentityLimit: 5,
		LoginIPLimit:       20,
	}, logg)
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
	})
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Name:         "Aicha",
		Phone:        "22234567",
		Role:         enums.RoleAdmin,
		PasswordHash: hash,
		IsActive:     true,
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	repo := &fakeUserRepo{user: seedUser(t, "hunter2hunter2")}
	sessions := &fakeSessionManager{}
	svc := newTestService(t, repo, sessions, &fakeLimiter{allow: true})

	resp, err := svc.Login(context.Background(), LoginRequest{Phone: "22234567", Password: "hunter2hunter2"}, "10.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Aicha", resp.User.Name)
	assert.NotNil(t, repo.lastLoginAt)
	require.Len(t, sessions.generated, 1)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleAdmin, claims.Role)
	assert.Equal(t, sessions.generated[0], claims.ID)
	assert.Equal(t, "refresh-"+sessions.generated[0], resp.RefreshToken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := &fakeUserRepo{user: seedUser(t, "hunter2hunter2")}
	svc := newTestService(t, repo, &fakeSessionManager{}, &fakeLimiter{allow: true})

	cases := []LoginRequest{
		{Phone: "99999999", Password: "hunter2hunter2"}, // unknown phone
		{Phone: "22234567", Password: "wrong"},          // bad password
		{Phone: "", Password: ""},                       // empty payload
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req, "")
		require.Error(t, err)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
		assert.Equal(t, "invalid phone number or password", appErr.Message())
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	user := seedUser(t, "hunter2hunter2")
	user.IsActive = false
	svc := newTestService(t, &fakeUserRepo{user: user}, &fakeSessionManager{}, &fakeLimiter{allow: true})

	_, err := svc.Login(context.Background(), LoginRequest{Phone: "22234567", Password: "hunter2hunter2"}, "")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestLoginRateLimited(t *testing.T) {
	repo := &fakeUserRepo{user: seedUser(t, "hunter2hunter2")}
	svc := newTestService(t, repo, &fakeSessionManager{}, &fakeLimiter{allow: false})

	_, err := svc.Login(context.Background(), LoginRequest{Phone: "22234567", Password: "hunter2hunter2"}, "")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeRateLimit, appErr.Code())
}

func TestLoginSurvivesLimiterOutage(t *testing.T) {
	repo := &fakeUserRepo{user: seedUser(t, "hunter2hunter2")}
	limiter := &fakeLimiter{allow: false, err: errors.New("redis down")}
	svc := newTestService(t, repo, &fakeSessionManager{}, limiter)

	resp, err := svc.Login(context.Background(), LoginRequest{Phone: "22234567", Password: "hunter2hunter2"}, "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefreshRejectsInvalidRefreshToken(t *testing.T) {
	repo := &fakeUserRepo{user: seedUser(t, "hunter2hunter2")}
	sessions := &fakeSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc := newTestService(t, repo, sessions, &fakeLimiter{allow: true})

	login, err := svc.Login(context.Background(), LoginRequest{Phone: "22234567", Password: "hunter2hunter2"}, "")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), login.AccessToken, "stolen-or-stale")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	repo := &fakeUserRepo{user: seedUser(t, "hunter2hunter2")}
	sessions := &fakeSessionManager{}
	svc := newTestService(t, repo, sessions, &fakeLimiter{allow: true})

	login, err := svc.Login(context.Background(), LoginRequest{Phone: "22234567", Password: "hunter2hunter2"}, "")
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.AccessToken, login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh-rotated", resp.RefreshToken)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "rotated-"+sessions.generated[0], claims.ID)
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &fakeSessionManager{}
	svc := newTestService(t, &fakeUserRepo{}, sessions, &fakeLimiter{allow: true})

	require.NoError(t, svc.Logout(context.Background(), "session-42"))
	assert.Equal(t, []string{"session-42"}, sessions.revoked)
}
