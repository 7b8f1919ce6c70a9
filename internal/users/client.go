package users

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nexusmart/storefront-gateway/pkg/enums"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/upstream"
)

// Profile is the user service's account record.
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register-user payload.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// PasswordChange is the update-password payload.
type PasswordChange struct {
	Email       string `json:"email"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// LoginResult is a minted token joined with the account it belongs to.
// CustomerRef is the user service's account id; carts and orders key on
// it, so login resolves it up front.
type LoginResult struct {
	Token       string
	CustomerRef string
	Profile     Profile
}

// Client talks to the user service.
type Client struct {
	base *upstream.Client
}

// NewClient wraps the shared upstream machinery for user calls.
func NewClient(base *upstream.Client) (*Client, error) {
	if base == nil {
		return nil, fmt.Errorf("user upstream client required")
	}
	return &Client{base: base}, nil
}

// Login authenticates and resolves the account id in one flow. The user
// service answers the login call with the bare token; a follow-up
// get-user-info call joins in the account. A login that authenticates
// but cannot be joined is treated as failed.
func (c *Client) Login(ctx context.Context, role enums.ActorRole, creds Credentials) (LoginResult, error) {
	path := "/login-user"
	if role == enums.ActorRoleAdmin {
		path = "/login-admin"
	}

	var out upstream.Envelope[string]
	err := c.base.Do(ctx, upstream.Request{
		Operation: "login",
		Method:    http.MethodPost,
		Path:      path,
		Body:      creds,
		Out:       &out,
	})
	if err != nil {
		return LoginResult{}, err
	}
	token := strings.TrimSpace(out.Data)
	if token == "" {
		return LoginResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user service returned no token")
	}

	profile, err := c.GetUserInfo(ctx, token, creds.Email)
	if err != nil {
		return LoginResult{}, err
	}
	if profile.ID == "" {
		return LoginResult{}, pkgerrors.New(pkgerrors.CodeFetchFailed, "user service returned no account id")
	}

	return LoginResult{Token: token, CustomerRef: profile.ID, Profile: profile}, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.base.Do(ctx, upstream.Request{
		Operation: "register",
		Method:    http.MethodPost,
		Path:      "/register-user",
		Body:      reg,
	})
}

// GetUserInfo resolves an account by email.
func (c *Client) GetUserInfo(ctx context.Context, token, email string) (Profile, error) {
	var out upstream.Envelope[Profile]
	err := c.base.Do(ctx, upstream.Request{
		Operation: "get_user_info",
		Method:    http.MethodGet,
		Path:      "/user/get-user-info",
		Query:     url.Values{"email": []string{email}},
		Token:     token,
		Out:       &out,
	})
	if err != nil {
		return Profile{}, err
	}
	return out.Data, nil
}

// VerifyAccess re-checks a token against the user service by resolving
// its own account. Best effort; callers treat any error as advisory.
func (c *Client) VerifyAccess(ctx context.Context, token, email string) error {
	_, err := c.GetUserInfo(ctx, token, email)
	return err
}

// UpdateFirstName changes the account's first name and returns the
// updated profile.
func (c *Client) UpdateFirstName(ctx context.Context, token, email, firstName string) (Profile, error) {
	return c.updateField(ctx, token, "update_first_name",
		"/user/update-first-name/"+url.PathEscape(email),
		url.Values{"fname": []string{firstName}}, nil)
}

// UpdateLastName changes the account's last name and returns the
// updated profile.
func (c *Client) UpdateLastName(ctx context.Context, token, email, lastName string) (Profile, error) {
	return c.updateField(ctx, token, "update_last_name",
		"/user/update-last-name/"+url.PathEscape(email),
		url.Values{"lname": []string{lastName}}, nil)
}

// UpdatePhone changes the account's phone number and returns the
// updated profile.
func (c *Client) UpdatePhone(ctx context.Context, token, email, phone string) (Profile, error) {
	return c.updateField(ctx, token, "update_phone",
		"/user/update-phone/"+url.PathEscape(email),
		url.Values{"phone": []string{phone}}, nil)
}

// UpdatePassword rotates the account password. The old password is
// checked by the user service, not here.
func (c *Client) UpdatePassword(ctx context.Context, token string, change PasswordChange) (Profile, error) {
	return c.updateField(ctx, token, "update_password", "/user/update-password", nil, change)
}

func (c *Client) updateField(ctx context.Context, token, operation, path string, query url.Values, body any) (Profile, error) {
	var out upstream.Envelope[Profile]
	err := c.base.Do(ctx, upstream.Request{
		Operation: operation,
		Method:    http.MethodPut,
		Path:      path,
		Query:     query,
		Token:     token,
		Body:      body,
		Out:       &out,
	})
	if err != nil {
		return Profile{}, err
	}
	return out.Data, nil
}

// Ping reports user service reachability for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.base.Ping(ctx)
}
