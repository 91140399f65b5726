package utils

import (
	"testing"

	"health-triage-server/internal/config"
	"health-triage-server/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "test-access-secret",
		JWTRefreshSecret:          "test-refresh-secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 168,
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	cfg := testConfig()
	user := &models.User{Role: models.RoleUser}
	user.ID = "11111111-2222-3333-4444-555555555555"

	accessToken, refreshToken, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Fatal("GenerateTokens returned an empty token")
	}

	claims, err := ValidateToken(accessToken, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("ValidateToken(access): %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("access claims.UserID = %q, want %q", claims.UserID, user.ID)
	}
	if claims.Role != models.RoleUser {
		t.Errorf("access claims.Role = %q, want %q", claims.Role, models.RoleUser)
	}

	refreshClaims, err := ValidateToken(refreshToken, cfg.JWTRefreshSecret)
	if err != nil {
		t.Fatalf("ValidateToken(refresh): %v", err)
	}
	if refreshClaims.UserID != user.ID {
		t.Errorf("refresh claims.UserID = %q, want %q", refreshClaims.UserID, user.ID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	cfg := testConfig()
	user := &models.User{Role: models.RoleAdmin}
	user.ID = "11111111-2222-3333-4444-555555555555"

	accessToken, _, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	if _, err := ValidateToken(accessToken, "some-other-secret"); err == nil {
		t.Error("ValidateToken accepted a token signed with a different secret")
	}

	// An access token must not validate against the refresh secret.
	if _, err := ValidateToken(accessToken, cfg.JWTRefreshSecret); err == nil {
		t.Error("ValidateToken accepted an access token as a refresh token")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-jwt", "secret"); err == nil {
		t.Error("ValidateToken accepted a malformed token")
	}
}
