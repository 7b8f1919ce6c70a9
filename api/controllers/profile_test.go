package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nexusmart/storefront-gateway/internal/users"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
)

type stubProfileService struct {
	profile users.Profile
	err     error

	firstNames []string
	lastNames  []string
	phones     []string
	passwords  []users.PasswordChange
}

func (s *stubProfileService) GetUserInfo(ctx context.Context, token, email string) (users.Profile, error) {
	return s.profile, s.err
}

func (s *stubProfileService) UpdateFirstName(ctx context.Context, token, email, firstName string) (users.Profile, error) {
	s.firstNames = append(s.firstNames, firstName)
	return s.profile, s.err
}

func (s *stubProfileService) UpdateLastName(ctx context.Context, token, email, lastName string) (users.Profile, error) {
	s.lastNames = append(s.lastNames, lastName)
	return s.profile, s.err
}

func (s *stubProfileService) UpdatePhone(ctx context.Context, token, email, phone string) (users.Profile, error) {
	s.phones = append(s.phones, phone)
	return s.profile, s.err
}

func (s *stubProfileService) UpdatePassword(ctx context.Context, token string, change users.PasswordChange) (users.Profile, error) {
	s.passwords = append(s.passwords, change)
	return s.profile, s.err
}

func TestProfileGet(t *testing.T) {
	svc := &stubProfileService{profile: users.Profile{ID: "cust-1", Email: "jo@example.com"}}
	rec := httptest.NewRecorder()
	ProfileGet(svc, ctlTestLogger()).ServeHTTP(rec, authedRequest(t, http.MethodGet, "/profile", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["email"] != "jo@example.com" {
		t.Fatalf("expected profile email, got %v", data["email"])
	}
}

func TestProfileUpdateAppliesProvidedFields(t *testing.T) {
	svc := &stubProfileService{profile: users.Profile{ID: "cust-1"}}
	rec := httptest.NewRecorder()
	ProfileUpdate(svc, ctlTestLogger()).ServeHTTP(rec, authedRequest(t, http.MethodPatch, "/profile",
		`{"firstName":"Jordan","phone":"5559876"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.firstNames) != 1 || svc.firstNames[0] != "Jordan" {
		t.Fatalf("expected first name update, got %v", svc.firstNames)
	}
	if len(svc.phones) != 1 || svc.phones[0] != "5559876" {
		t.Fatalf("expected phone update, got %v", svc.phones)
	}
	if len(svc.lastNames) != 0 {
		t.Fatal("expected no last name update when field is absent")
	}
}

func TestProfileUpdateRequiresAtLeastOneField(t *testing.T) {
	svc := &stubProfileService{}
	rec := httptest.NewRecorder()
	ProfileUpdate(svc, ctlTestLogger()).ServeHTTP(rec, authedRequest(t, http.MethodPatch, "/profile", `{}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProfileChangePassword(t *testing.T) {
	svc := &stubProfileService{profile: users.Profile{ID: "cust-1"}}
	rec := httptest.NewRecorder()
	ProfileChangePassword(svc, ctlTestLogger()).ServeHTTP(rec, authedRequest(t, http.MethodPost, "/profile/password",
		`{"oldPassword":"oldsecret1","newPassword":"newsecret1"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.passwords) != 1 {
		t.Fatalf("expected one password change, got %d", len(svc.passwords))
	}
	change := svc.passwords[0]
	if change.Email != "jo@example.com" || change.OldPassword != "oldsecret1" {
		t.Fatalf("expected session email and old password forwarded, got %+v", change)
	}
}

func TestProfileChangePasswordRejectsReuse(t *testing.T) {
	svc := &stubProfileService{}
	rec := httptest.NewRecorder()
	ProfileChangePassword(svc, ctlTestLogger()).ServeHTTP(rec, authedRequest(t, http.MethodPost, "/profile/password",
		`{"oldPassword":"samesecret","newPassword":"samesecret"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(svc.passwords) != 0 {
		t.Fatal("expected no upstream call when passwords match")
	}
}

func TestProfileChangePasswordWrongOldPassword(t *testing.T) {
	svc := &stubProfileService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "old password does not match")}
	rec := httptest.NewRecorder()
	ProfileChangePassword(svc, ctlTestLogger()).ServeHTTP(rec, authedRequest(t, http.MethodPost, "/profile/password",
		`{"oldPassword":"wrongsecret","newPassword":"newsecret1"}`))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
