package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Context keys for authentication
type contextKey string

const (
	// ClaimsContextKey is the context key for JWT claims
	ClaimsContextKey contextKey = "claims"
)

// AuthMiddleware holds dependencies for authentication middleware
type AuthMiddleware struct {
	jwtService *JWTService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtService *JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate middleware authenticates requests via a bearer JWT token
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authenticate(r)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth middleware sets claims if authenticated but continues if not
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authenticate(r)
		if err == nil && claims != nil {
			r = r.WithContext(context.WithValue(r.Context(), ClaimsContextKey, claims))
		}

		next.ServeHTTP(w, r)
	})
}

// authenticate extracts and validates the bearer token on a request
func (m *AuthMiddleware) authenticate(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, ErrInvalidToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, ErrInvalidToken
	}

	return m.jwtService.Validate(parts[1])
}

// GetClaims returns the JWT claims from context
func GetClaims(ctx context.Context) *Claims {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetUserID returns the authenticated user ID from context
func GetUserID(ctx context.Context) string {
	claims := GetClaims(ctx)
	if claims == nil {
		return ""
	}
	return claims.UserID
}

// writeAuthError writes an authentication error response
func writeAuthError(w http.ResponseWriter, err error) {
	message := "Authentication required"

	switch err {
	case ErrExpiredToken:
		message = "Token has expired"
	case ErrInvalidToken:
		message = "Invalid authentication token"
	case ErrTokenNotYetValid:
		message = "Token is not yet valid"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   "unauthorized",
		"message": message,
	})
}
