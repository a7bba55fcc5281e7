package auth

import (
	"testing"
	"time"

	"github.com/adrianoneco/userdir/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "token-test-secret-at-least-32-chars!!"

var testUser = domain.PublicUser{ID: "user-1", Email: "ana@x.com"}

func TestTokenService_IssueVerify(t *testing.T) {
	svc := NewTokenService([]byte(testSecret))

	token, err := svc.Issue(testUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, claims.UserID)
	assert.Equal(t, testUser.Email, claims.Email)

	// Expiry sits seven days out.
	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, TokenTTL-time.Minute)
	assert.LessOrEqual(t, remaining, TokenTTL)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	svc := NewTokenService([]byte(testSecret))

	expired := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
		UserID: testUser.ID,
		Email:  testUser.Email,
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenService_WrongKey(t *testing.T) {
	other := NewTokenService([]byte("another-secret-that-is-32-chars-long!"))
	token, err := other.Issue(testUser)
	require.NoError(t, err)

	svc := NewTokenService([]byte(testSecret))
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenService_TamperedToken(t *testing.T) {
	svc := NewTokenService([]byte(testSecret))
	token, err := svc.Issue(testUser)
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "xxxx"
	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService([]byte(testSecret))

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	}
}
