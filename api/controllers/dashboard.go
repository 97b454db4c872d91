package controllers

import (
	"net/http"

	"github.com/fastcommand/finance-backend/api/middleware"
	"github.com/fastcommand/finance-backend/api/responses"
	"github.com/fastcommand/finance-backend/internal/distribution"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

type investorProfitsResponse struct {
	Stats     *distribution.Stats           `json:"stats,omitempty"`
	Investors []distribution.InvestorProfit `json:"investors"`
}

func Dashboard(svc *distribution.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Dashboard(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func InvestorProfits(svc *distribution.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, profits, err := svc.InvestorProfits(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, investorProfitsResponse{Stats: stats, Investors: profits})
	}
}
