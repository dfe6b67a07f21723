package auth

import (
	"testing"
	"time"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("hash equals plaintext")
	}
	if !VerifyPassword("s3cret", hash) {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, expiresAt, err := GenerateToken("test-secret", "user-1", "a@b.c", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("token already expired: %v", expiresAt)
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "a@b.c" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := GenerateToken("secret-a", "user-1", "a@b.c", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Fatalf("expected verification failure with wrong secret")
	}
}

func TestGenerateTokenRequiresSubjectAndSecret(t *testing.T) {
	if _, _, err := GenerateToken("", "user-1", "a@b.c", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, _, err := GenerateToken("secret", "", "a@b.c", time.Hour); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}
