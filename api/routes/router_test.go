package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/internal/investors"
	pkgauth "github.com/fastcommand/finance-backend/pkg/auth"
	"github.com/fastcommand/finance-backend/pkg/auth/session"
	"github.com/fastcommand/finance-backend/pkg/config"
	"github.com/fastcommand/finance-backend/pkg/db"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	"github.com/fastcommand/finance-backend/pkg/enums"
	"github.com/fastcommand/finance-backend/pkg/logger"
	"github.com/fastcommand/finance-backend/pkg/metrics"
	"github.com/fastcommand/finance-backend/pkg/redis"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubInvestorService struct{}

func (stubInvestorService) Create(ctx context.Context, actor access.Actor, input investors.CreateInput) (*models.Investor, error) {
	return &models.Investor{ID: uuid.New(), Name: input.Name}, nil
}

func (stubInvestorService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input investors.UpdateInput) (*models.Investor, error) {
	return &models.Investor{ID: id}, nil
}

func (stubInvestorService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	return nil
}

func (stubInvestorService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*models.Investor, error) {
	return &models.Investor{ID: id}, nil
}

func (stubInvestorService) List(ctx context.Context, actor access.Actor) ([]models.Investor, error) {
	return []models.Investor{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		(*db.Client)(nil),
		(*redis.Client)(nil),
		stubSessionChecker{},
		metrics.NewHTTPMetrics(nil),
		nil,
		Services{Investors: stubInvestorService{}},
	)
}

func buildToken(t *testing.T, cfg *config.Config, name string, role enums.Role) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Name:   name,
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProtectedGroupRejectsMissingToken(t *testing.T) {
	router := newTestRouter(testConfig())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/investors", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestInvestorListAllowsAssistant(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/investors", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "Fatim", enums.RoleAssistant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestInvestorMutationRequiresEditPermission(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/investors/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "Fatim", enums.RoleAssistant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for assistant delete got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/investors/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "Admin", enums.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin delete got %d", resp.Code)
	}
}

func TestUsersGroupIsAdminOnly(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	for _, role := range []enums.Role{enums.RoleAssistant, enums.RoleInvestor} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "someone", role))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for %s got %d", role, resp.Code)
		}
	}
}

func TestExportIsAdminOnly(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "Fatim", enums.RoleAssistant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
