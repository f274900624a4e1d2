package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/fernwell/contact-api/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	svc := auth.NewJWTService(testSecret, 60)

	token, err := svc.GenerateToken(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, svc.ValidateToken(context.Background(), token))
}

func TestValidateTokenWrongSecret(t *testing.T) {
	t.Parallel()

	svc := auth.NewJWTService(testSecret, 60)
	other := auth.NewJWTService("adifferentsecretthatisalso32chars!!", 60)

	token, err := other.GenerateToken(context.Background())
	require.NoError(t, err)

	err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	t.Parallel()

	svc := auth.NewJWTService(testSecret, 60)
	assert.ErrorIs(t, svc.ValidateToken(context.Background(), "not.a.token"), auth.ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	// Sign an already-expired token with the shared secret directly.
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := auth.NewJWTService(testSecret, 60)
	assert.ErrorIs(t, svc.ValidateToken(context.Background(), expired), auth.ErrExpiredToken)
}

func TestValidateTokenWrongSubject(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   "someone-else",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := auth.NewJWTService(testSecret, 60)
	assert.ErrorIs(t, svc.ValidateToken(context.Background(), token), auth.ErrInvalidToken)
}
