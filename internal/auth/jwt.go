// Package auth provides the JWT service protecting the admin listing
// endpoints. Tokens are HS256-signed with a shared secret from config;
// there are no user accounts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Common authentication errors.
var (
	// ErrInvalidToken indicates the token failed signature or claim checks.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the token is past its expiry.
	ErrExpiredToken = errors.New("expired token")
)

// adminSubject is the fixed subject claim carried by admin tokens.
const adminSubject = "admin"

// JWTService issues and validates admin access tokens.
type JWTService interface {
	// GenerateToken creates a signed admin token.
	GenerateToken(ctx context.Context) (string, error)

	// ValidateToken verifies the token signature and claims.
	ValidateToken(ctx context.Context, tokenString string) error
}

// hmacJWTService implements JWTService with HS256 signing.
type hmacJWTService struct {
	secret   []byte
	lifetime time.Duration
}

// NewJWTService creates a JWTService from the shared secret and token
// lifetime in minutes.
func NewJWTService(secret string, lifetimeMinutes int) JWTService {
	if lifetimeMinutes <= 0 {
		lifetimeMinutes = 60
	}
	return &hmacJWTService{
		secret:   []byte(secret),
		lifetime: time.Duration(lifetimeMinutes) * time.Minute,
	}
}

// GenerateToken implements JWTService.GenerateToken
func (s *hmacJWTService) GenerateToken(ctx context.Context) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken implements JWTService.ValidateToken
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) error {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject != adminSubject {
		return ErrInvalidToken
	}

	return nil
}
