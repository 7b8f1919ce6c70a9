package auth

import (
	"testing"
	"time"

	"github.com/nexusmart/storefront-gateway/pkg/config"
	"github.com/nexusmart/storefront-gateway/pkg/enums"
)

var testJWTConfig = config.JWTConfig{Secret: "test-secret", Issuer: "nexus-mart"}

func TestMintAndParseRoundTrip(t *testing.T) {
	token, err := MintAccessToken(testJWTConfig, time.Now(), time.Hour, AccessTokenPayload{
		CustomerRef: "cust-42",
		Email:       "shopper@example.com",
		Role:        enums.ActorRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(testJWTConfig, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.CustomerRef != "cust-42" {
		t.Fatalf("unexpected customer ref %q", claims.CustomerRef)
	}
	if claims.Role != enums.ActorRoleCustomer {
		t.Fatalf("unexpected role %q", claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := MintAccessToken(testJWTConfig, time.Now(), time.Hour, AccessTokenPayload{
		CustomerRef: "cust-42",
		Role:        enums.ActorRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(config.JWTConfig{Secret: "other", Issuer: "nexus-mart"}, token); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := MintAccessToken(testJWTConfig, time.Now().Add(-2*time.Hour), time.Hour, AccessTokenPayload{
		CustomerRef: "cust-42",
		Role:        enums.ActorRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(testJWTConfig, token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestMintValidatesPayload(t *testing.T) {
	if _, err := MintAccessToken(testJWTConfig, time.Now(), time.Hour, AccessTokenPayload{Role: enums.ActorRoleCustomer}); err == nil {
		t.Fatal("expected missing customer ref to fail")
	}
	if _, err := MintAccessToken(testJWTConfig, time.Now(), time.Hour, AccessTokenPayload{CustomerRef: "c", Role: "ghost"}); err == nil {
		t.Fatal("expected invalid role to fail")
	}
}
