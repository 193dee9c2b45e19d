package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if _, err := BearerToken(r); err != ErrMissingAuthHeader {
		t.Fatalf("expected ErrMissingAuthHeader, got %v", err)
	}

	r.Header.Set("Authorization", "Basic abc")
	if _, err := BearerToken(r); err != ErrMissingAuthHeader {
		t.Fatalf("expected ErrMissingAuthHeader for non-bearer scheme, got %v", err)
	}

	r.Header.Set("Authorization", "Bearer token-123")
	token, err := BearerToken(r)
	if err != nil || token != "token-123" {
		t.Fatalf("expected token-123, got %q err=%v", token, err)
	}
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	signed := signToken(t, secret, jwt.MapClaims{
		"sub": float64(42),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)

	claims, err := VerifyToken(r, secret)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	id, err := GetUserIDFromClaims(claims)
	if err != nil || id != 42 {
		t.Fatalf("expected user id 42, got %d err=%v", id, err)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	signed := signToken(t, "right-secret", jwt.MapClaims{"sub": float64(1)})
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	if _, err := VerifyToken(r, "wrong-secret"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	secret := "test-secret"
	signed := signToken(t, secret, jwt.MapClaims{
		"sub": float64(1),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	if _, err := VerifyToken(r, secret); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestGetUserIDFromClaims(t *testing.T) {
	if id, err := GetUserIDFromClaims(jwt.MapClaims{"sub": "17"}); err != nil || id != 17 {
		t.Fatalf("numeric string sub: id=%d err=%v", id, err)
	}
	if _, err := GetUserIDFromClaims(jwt.MapClaims{"sub": "abc"}); err == nil {
		t.Fatal("expected error for non-numeric string sub")
	}
	if _, err := GetUserIDFromClaims(jwt.MapClaims{}); err == nil {
		t.Fatal("expected error for missing sub")
	}
	if _, err := GetUserIDFromClaims(jwt.MapClaims{"sub": true}); err == nil {
		t.Fatal("expected error for wrong sub type")
	}
}
