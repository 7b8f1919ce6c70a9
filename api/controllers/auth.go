package controllers

import (
	"context"
	"net/http"

	"github.com/nexusmart/storefront-gateway/api/responses"
	"github.com/nexusmart/storefront-gateway/api/validators"
	"github.com/nexusmart/storefront-gateway/internal/users"
	"github.com/nexusmart/storefront-gateway/pkg/enums"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
)

// Authenticator resolves credentials against the user service.
type Authenticator interface {
	Login(ctx context.Context, role enums.ActorRole, creds users.Credentials) (users.LoginResult, error)
	Register(ctx context.Context, reg users.Registration) error
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

type loginResponse struct {
	Token       string        `json:"token"`
	CustomerRef string        `json:"customerRef"`
	Role        string        `json:"role"`
	Profile     users.Profile `json:"profile"`
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,max=32"`
	Password  string `json:"password" validate:"required,min=8"`
}

// Login exchanges credentials for an access token. The user service
// mints the token; the gateway verifies it on later requests with the
// shared secret and forwards it on every collaborator call.
func Login(svc Authenticator, role enums.ActorRole, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), role, users.Credentials{
			Email:    validators.SanitizeString(req.Email, 320),
			Password: req.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithCustomerRef(r.Context(), result.CustomerRef)
		logg.Info(ctx, "login succeeded")
		responses.WriteSuccess(w, loginResponse{
			Token:       result.Token,
			CustomerRef: result.CustomerRef,
			Role:        role.String(),
			Profile:     result.Profile,
		})
	}
}

// Register creates a shopper account. Registration never mints a token;
// the client logs in afterwards.
func Register(svc Authenticator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var req registerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := svc.Register(r.Context(), users.Registration{
			FirstName: validators.SanitizeString(req.FirstName, 100),
			LastName:  validators.SanitizeString(req.LastName, 100),
			Email:     validators.SanitizeString(req.Email, 320),
			Phone:     validators.SanitizeString(req.Phone, 32),
			Password:  req.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(r.Context(), "registration accepted")
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"email": req.Email})
	}
}
