package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tarotnautica/backend/internal/models"
)

func testUser() *models.User {
	return &models.User{ID: "user-1", Email: "luz@example.com"}
}

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, 7*24*time.Hour)

	token, err := svc.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate error = %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate error = %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "luz@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", time.Hour, time.Hour).Generate(testUser())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewJWTService("secret-b", time.Hour, time.Hour).Validate(token); err != ErrInvalidToken {
		t.Errorf("Validate error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewJWTService("secret", -time.Minute, time.Hour)
	token, err := svc.Generate(testUser())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Validate(token); err != ErrExpiredToken {
		t.Errorf("Validate error = %v, want ErrExpiredToken", err)
	}
}

func TestRefreshExpiredWithinGrace(t *testing.T) {
	svc := NewJWTService("secret", -time.Minute, time.Hour)
	token, err := svc.Generate(testUser())
	if err != nil {
		t.Fatal(err)
	}

	refreshed, err := svc.Refresh(token)
	if err != nil {
		t.Fatalf("Refresh error = %v", err)
	}

	// The refreshed token carries a fresh expiry under the same secret.
	fresh := NewJWTService("secret", time.Hour, time.Hour)
	claims, err := fresh.Validate(refreshed)
	if err != nil {
		t.Fatalf("Validate refreshed token error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q", claims.UserID)
	}
}

func TestRefreshRejectsBeyondGrace(t *testing.T) {
	svc := NewJWTService("secret", -2*time.Hour, time.Hour)
	token, err := svc.Generate(testUser())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Refresh(token); err != ErrExpiredToken {
		t.Errorf("Refresh error = %v, want ErrExpiredToken", err)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Moonlight7")
	if err != nil {
		t.Fatalf("HashPassword error = %v", err)
	}
	if !CheckPassword("Moonlight7", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("Moonlight8", hash) {
		t.Error("wrong password accepted")
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     error
	}{
		{"valid", "Moonlight7", nil},
		{"too short", "Ab1", ErrPasswordTooShort},
		{"common", "password", ErrPasswordCommon},
		{"no upper", "moonlight7", ErrPasswordNoUpper},
		{"no lower", "MOONLIGHT7", ErrPasswordNoLower},
		{"no digit", "Moonlight", ErrPasswordNoDigit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePasswordStrength(tt.password); got != tt.want {
				t.Errorf("ValidatePasswordStrength(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestAuthenticateMiddleware(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, time.Hour)
	mw := NewAuthMiddleware(svc)

	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetUserID(r.Context()); got != "user-1" {
			t.Errorf("GetUserID = %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	token, err := svc.Generate(testUser())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d", rec.Code)
		}
	})
}
