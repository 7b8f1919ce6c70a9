package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/nexusmart/storefront-gateway/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT. The user
// service owns issuance in production; the gateway mints only in tests and
// dev tooling, with the same shared-secret shape.
type AccessTokenPayload struct {
	CustomerRef string
	Email       string
	Role        enums.ActorRole
}

// AccessTokenClaims represents the typed JWT attached to storefront calls.
type AccessTokenClaims struct {
	CustomerRef string          `json:"customer_ref"`
	Email       string          `json:"email,omitempty"`
	Role        enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
