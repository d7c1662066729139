package auth

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/mlisovenko/vitrina/backend/internal/domain/enums"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mgr := NewJWTManager("test-secret", 15*time.Minute)
	mgr.now = func() time.Time { return now }

	signed, expiresAt, err := mgr.GenerateAccessToken(42, "sid-1", "Escort")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !expiresAt.Equal(now.Add(15 * time.Minute)) {
		t.Fatalf("expires = %v, want %v", expiresAt, now.Add(15*time.Minute))
	}

	claims, err := mgr.ParseAccessToken(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.SID != "sid-1" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.Role != enums.RoleEscort {
		t.Fatalf("role = %q, want %q", claims.Role, enums.RoleEscort)
	}
}

func TestGenerateAccessTokenRejectsBadInput(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mgr := NewJWTManager("test-secret", 15*time.Minute)
	mgr.now = func() time.Time { return now }
	if _, _, err := mgr.GenerateAccessToken(42, "sid-1", "superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}

	noTTL := NewJWTManager("test-secret", 0)
	noTTL.now = func() time.Time { return now }
	if _, _, err := noTTL.GenerateAccessToken(42, "sid-1", "escort"); err == nil {
		t.Fatal("expected error for unset access ttl")
	}
}

func TestParseAccessTokenRejectsForeignIssuer(t *testing.T) {
	mgr := NewJWTManager("test-secret", 15*time.Minute)

	// Same secret, wrong issuer claim.
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, accessTokenClaims{
		SID:  "sid-1",
		Role: enums.RoleEscort,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "somebody-else",
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := foreign.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := mgr.ParseAccessToken(signed); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("foreign issuer err = %v, want ErrUnauthorized", err)
	}
	if _, err := mgr.ParseAccessToken("not-a-token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("garbage token err = %v, want ErrUnauthorized", err)
	}
}
