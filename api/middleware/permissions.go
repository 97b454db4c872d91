package middleware

import (
	"net/http"

	"github.com/fastcommand/finance-backend/api/responses"
	"github.com/fastcommand/finance-backend/internal/access"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

// RequirePermission gates a route on one permission check. Services still
// re-check before mutating; this keeps denied requests from reaching them.
func RequirePermission(check access.Check, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFromContext(r.Context())
			if !actor.Can(check) {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
