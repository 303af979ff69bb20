package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumine-jewelry/lumine-backend/pkg/config"
	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
)

func testCfg() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "lumine-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParse(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	token, err := MintAccessToken(testCfg(), time.Now(), AccessTokenPayload{
		UserID: userID,
		Role:   enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(testCfg(), token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID || claims.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "lumine-test" {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	issuedAt := time.Now().Add(-2 * time.Hour)
	token, err := MintAccessToken(testCfg(), issuedAt, AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(testCfg(), token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := MintAccessToken(testCfg(), time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := testCfg()
	other.Secret = "a-different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	cfg := testCfg()
	cfg.Issuer = "someone-else"
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(testCfg(), token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestMintValidation(t *testing.T) {
	t.Parallel()

	cfg := testCfg()
	cfg.Secret = ""
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer}); err == nil {
		t.Fatal("expected error without secret")
	}

	if _, err := MintAccessToken(testCfg(), time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRole("ghost")}); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
