package controllers

import (
	"context"
	"net/http"

	"github.com/nexusmart/storefront-gateway/api/middleware"
	"github.com/nexusmart/storefront-gateway/api/responses"
	"github.com/nexusmart/storefront-gateway/api/validators"
	"github.com/nexusmart/storefront-gateway/internal/users"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
)

// ProfileService reads and updates the session user's account record.
type ProfileService interface {
	GetUserInfo(ctx context.Context, token, email string) (users.Profile, error)
	UpdateFirstName(ctx context.Context, token, email, firstName string) (users.Profile, error)
	UpdateLastName(ctx context.Context, token, email, lastName string) (users.Profile, error)
	UpdatePhone(ctx context.Context, token, email, phone string) (users.Profile, error)
	UpdatePassword(ctx context.Context, token string, change users.PasswordChange) (users.Profile, error)
}

type profileUpdateRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,min=1,max=32"`
}

type passwordChangeRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// ProfileGet returns the session user's account record.
func ProfileGet(svc ProfileService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok || sess.Email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required"))
			return
		}
		profile, err := svc.GetUserInfo(r.Context(), sess.Token, sess.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// ProfileUpdate applies the provided fields one at a time; the user
// service only exposes per-field endpoints. The last write's profile is
// returned.
func ProfileUpdate(svc ProfileService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok || sess.Email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required"))
			return
		}

		var req profileUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.FirstName == nil && req.LastName == nil && req.Phone == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "at least one field must be provided"))
			return
		}

		var profile users.Profile
		var err error
		if req.FirstName != nil {
			profile, err = svc.UpdateFirstName(r.Context(), sess.Token, sess.Email, validators.SanitizeString(*req.FirstName, 100))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if req.LastName != nil {
			profile, err = svc.UpdateLastName(r.Context(), sess.Token, sess.Email, validators.SanitizeString(*req.LastName, 100))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if req.Phone != nil {
			profile, err = svc.UpdatePhone(r.Context(), sess.Token, sess.Email, validators.SanitizeString(*req.Phone, 32))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		logg.Info(r.Context(), "profile updated")
		responses.WriteSuccess(w, profile)
	}
}

// ProfileChangePassword rotates the session user's password.
func ProfileChangePassword(svc ProfileService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok || sess.Email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required"))
			return
		}

		var req passwordChangeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.OldPassword == req.NewPassword {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "new password must differ from the old one"))
			return
		}

		profile, err := svc.UpdatePassword(r.Context(), sess.Token, users.PasswordChange{
			Email:       sess.Email,
			OldPassword: req.OldPassword,
			NewPassword: req.NewPassword,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(r.Context(), "password changed")
		responses.WriteSuccess(w, profile)
	}
}
