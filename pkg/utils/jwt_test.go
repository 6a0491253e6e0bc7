package utils

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "")

	token, err := m.GenerateAccessToken("7", "Ana", "11.111.111-1", "vendedor")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "7" || claims.Name != "Ana" || claims.Role != "vendedor" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTRejectsForeignSecret(t *testing.T) {
	token, _ := NewJWTManager("one", time.Hour, "").GenerateAccessToken("1", "a", "r", "admin")
	if _, err := NewJWTManager("two", time.Hour, "").ValidateAccessToken(token); err == nil {
		t.Fatal("expected validation failure with a different secret")
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, "")
	token, _ := m.GenerateAccessToken("1", "a", "r", "admin")
	if _, err := m.ValidateAccessToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
