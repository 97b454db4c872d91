package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastcommand/finance-backend/internal/access"
	pkgauth "github.com/fastcommand/finance-backend/pkg/auth"
	"github.com/fastcommand/finance-backend/pkg/config"
	"github.com/fastcommand/finance-backend/pkg/enums"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

func middlewareJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "middleware-secret", Issuer: "finance-backend", ExpirationMinutes: 15}
}

func mintToken(t *testing.T, role enums.Role, overrides []string) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(middlewareJWTConfig(), time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:    uuid.New(),
		Name:      "Salma",
		Role:      role,
		Overrides: overrides,
		JTI:       uuid.NewString(),
	})
	require.NoError(t, err)
	return token
}

func gatedHandler(t *testing.T, check access.Check) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Auth(middlewareJWTConfig(), nil, logg)(RequirePermission(check, logg)(next))
}

func TestRequirePermissionDeniesRoleWithoutGrant(t *testing.T) {
	handler := gatedHandler(t, access.ExportData)

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleAssistant, nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermissionHonorsTokenOverrides(t *testing.T) {
	handler := gatedHandler(t, access.ExportData)

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleAssistant, []string{"canExportData"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestActorFromContextCarriesOverrides(t *testing.T) {
	var actor access.Actor
	logg := logger.New(logger.Options{ServiceName: "test"})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = ActorFromContext(r.Context())
	})
	handler := Auth(middlewareJWTConfig(), nil, logg)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleInvestor, []string{"canViewAllData"}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, enums.RoleInvestor, actor.Role)
	assert.Equal(t, []string{"canViewAllData"}, actor.Overrides)
	assert.True(t, actor.Can(access.ViewAllData))
}
