package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/fastcommand/finance-backend/api/middleware"
	"github.com/fastcommand/finance-backend/api/responses"
	"github.com/fastcommand/finance-backend/api/validators"
	settingssvc "github.com/fastcommand/finance-backend/internal/settings"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

type allocationPayload struct {
	Name        string          `json:"name" validate:"required"`
	Percentage  decimal.Decimal `json:"percentage"`
	Description string          `json:"description,omitempty"`
}

type saveSettingsRequest struct {
	ProjectPercentage decimal.Decimal     `json:"projectPercentage"`
	Currency          string              `json:"currency,omitempty"`
	CustomAllocations []allocationPayload `json:"customAllocations"`
}

func GetSettings(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := svc.Get(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func SaveSettings(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload saveSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := settingssvc.SaveInput{
			ProjectPercentage: payload.ProjectPercentage,
			Currency:          payload.Currency,
		}
		for _, alloc := range payload.CustomAllocations {
			input.CustomAllocations = append(input.CustomAllocations, settingssvc.AllocationInput{
				Name:        alloc.Name,
				Percentage:  alloc.Percentage,
				Description: alloc.Description,
			})
		}

		row, err := svc.Save(r.Context(), middleware.ActorFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}
