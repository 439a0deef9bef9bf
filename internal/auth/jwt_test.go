package auth

import (
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("unit-test-secret")

	token, err := GenerateToken(42, "user@test.dev", true)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Email != "user@test.dev" {
		t.Errorf("expected email preserved, got %q", claims.Email)
	}
	if !claims.IsAdmin {
		t.Error("expected admin flag preserved")
	}
	if claims.ExpiresAt == nil {
		t.Error("expected an expiry claim")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	InitJWT("unit-test-secret")

	for _, bad := range []string{"", "not.a.token", "a.b"} {
		if _, err := ValidateToken(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	InitJWT("unit-test-secret")

	token, err := GenerateToken(7, "victim@test.dev", false)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	// Flip a character in the signature segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := ValidateToken(tampered); err == nil {
		t.Error("expected tampered token to fail validation")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	InitJWT("secret-one")
	token, err := GenerateToken(7, "user@test.dev", false)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	InitJWT("secret-two")
	if _, err := ValidateToken(token); err == nil {
		t.Error("expected token signed with another secret to fail")
	}

	// Restore so later tests in the package see a working secret
	InitJWT("unit-test-secret")
}
