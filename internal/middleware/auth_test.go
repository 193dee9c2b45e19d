package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/0xteamMuffin/Hireability/internal/utils"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": float64(userID),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newAuthenticator(t *testing.T) (*Authenticator, *utils.TokenBlacklist) {
	t.Helper()
	mr := miniredis.RunT(t)
	blacklist := utils.NewTokenBlacklist(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return &Authenticator{Secret: testSecret, Blacklist: blacklist}, blacklist
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	auth, _ := newAuthenticator(t)
	var gotUserID uint
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/profile", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, 42))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUserID != 42 {
		t.Fatalf("expected user id 42 in context, got %d", gotUserID)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	auth, _ := newAuthenticator(t)
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/profile", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthRejectsRevokedToken(t *testing.T) {
	auth, blacklist := newAuthenticator(t)
	token := signedToken(t, 42)
	if err := blacklist.Revoke(context.Background(), token, time.Hour); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a revoked token")
	}))
	r := httptest.NewRequest("GET", "/profile", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked token, got %d", w.Code)
	}
}

func TestUserIDWithoutAuthIsZero(t *testing.T) {
	if got := UserID(httptest.NewRequest("GET", "/", nil)); got != 0 {
		t.Fatalf("expected 0 without auth, got %d", got)
	}
}
