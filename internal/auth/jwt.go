package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tarotnautica/backend/internal/models"
)

var (
	// ErrInvalidToken is returned when a token is invalid
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token has expired
	ErrExpiredToken = errors.New("token has expired")
	// ErrTokenNotYetValid is returned when a token is not yet valid
	ErrTokenNotYetValid = errors.New("token is not yet valid")
)

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token operations
type JWTService struct {
	secret       []byte
	expiration   time.Duration
	refreshGrace time.Duration
	issuer       string
}

// NewJWTService creates a new JWT service. Expired tokens can still be
// refreshed within refreshGrace of their expiry.
func NewJWTService(secret string, expiration, refreshGrace time.Duration) *JWTService {
	return &JWTService{
		secret:       []byte(secret),
		expiration:   expiration,
		refreshGrace: refreshGrace,
		issuer:       "tarotnautica",
	}
}

// Generate creates a new JWT token for a user
func (s *JWTService) Generate(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate validates a JWT token and returns the claims
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Issuer != s.issuer {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Refresh issues a new token from an existing one. Tokens that expired less
// than refreshGrace ago are still accepted.
func (s *JWTService) Refresh(tokenString string) (string, error) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		if err != ErrExpiredToken {
			return "", err
		}

		token, parseErr := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		}, jwt.WithoutClaimsValidation())
		if parseErr != nil {
			return "", ErrInvalidToken
		}

		expired, ok := token.Claims.(*Claims)
		if !ok || expired.Issuer != s.issuer {
			return "", ErrInvalidToken
		}
		if expired.ExpiresAt == nil || time.Since(expired.ExpiresAt.Time) > s.refreshGrace {
			return "", ErrExpiredToken
		}
		claims = expired
	}

	return s.generateFromClaims(claims)
}

// generateFromClaims creates a new token from existing claims
func (s *JWTService) generateFromClaims(oldClaims *Claims) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: oldClaims.UserID,
		Email:  oldClaims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   oldClaims.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// GetExpiration returns the token expiration duration
func (s *JWTService) GetExpiration() time.Duration {
	return s.expiration
}
