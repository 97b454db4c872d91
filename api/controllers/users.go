package controllers

import (
	"net/http"

	"github.com/fastcommand/finance-backend/api/middleware"
	"github.com/fastcommand/finance-backend/api/responses"
	"github.com/fastcommand/finance-backend/api/validators"
	userssvc "github.com/fastcommand/finance-backend/internal/users"
	"github.com/fastcommand/finance-backend/pkg/enums"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

type createUserRequest struct {
	Name                string   `json:"name" validate:"required"`
	Phone               string   `json:"phone" validate:"required"`
	Email               *string  `json:"email,omitempty" validate:"omitempty,email"`
	Role                string   `json:"role" validate:"required"`
	Password            string   `json:"password" validate:"required,min=8"`
	PermissionOverrides []string `json:"permission_overrides,omitempty"`
}

type updateUserRequest struct {
	Name                *string   `json:"name,omitempty"`
	Phone               *string   `json:"phone,omitempty"`
	Email               *string   `json:"email,omitempty" validate:"omitempty,email"`
	Role                *string   `json:"role,omitempty"`
	Password            *string   `json:"password,omitempty" validate:"omitempty,min=8"`
	IsActive            *bool     `json:"isActive,omitempty"`
	PermissionOverrides *[]string `json:"permission_overrides,omitempty"`
}

func CreateUser(svc userssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), userssvc.CreateInput{
			Name:                payload.Name,
			Phone:               payload.Phone,
			Email:               payload.Email,
			Role:                enums.Role(payload.Role),
			Password:            payload.Password,
			PermissionOverrides: payload.PermissionOverrides,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, userssvc.FromModel(row))
	}
}

func UpdateUser(svc userssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := userssvc.UpdateInput{
			Name:                payload.Name,
			Phone:               payload.Phone,
			Email:               payload.Email,
			Password:            payload.Password,
			IsActive:            payload.IsActive,
			PermissionOverrides: payload.PermissionOverrides,
		}
		if payload.Role != nil {
			role := enums.Role(*payload.Role)
			input.Role = &role
		}

		row, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, userssvc.FromModel(row))
	}
}

func DeleteUser(svc userssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ListUsers(svc userssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, userssvc.FromModels(rows))
	}
}
