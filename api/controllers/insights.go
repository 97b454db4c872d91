package controllers

import (
	"net/http"

	"github.com/fastcommand/finance-backend/api/middleware"
	"github.com/fastcommand/finance-backend/api/responses"
	insightsvc "github.com/fastcommand/finance-backend/internal/insights"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

func GenerateInsights(svc *insightsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		insights, err := svc.Generate(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, insights)
	}
}
