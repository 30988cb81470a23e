package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/meridian-studio/contact-backend/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-for-unit-tests-32-chars!"

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	_, err := NewTokenService("too-short", time.Hour)
	assert.Error(t, err)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	ts, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	adminID := uuid.New()
	token, expiresAt, err := ts.Issue(adminID, "superadmin", models.RoleSuperAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, adminID.String(), claims.AdminID)
	assert.Equal(t, "superadmin", claims.Username)
	assert.Equal(t, models.RoleSuperAdmin, claims.Role)
}

func TestTokenService_VerifyMalformed(t *testing.T) {
	ts, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := ts.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestTokenService_VerifyWrongSecret(t *testing.T) {
	issuer, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService("another-secret-also-32-characters!!!", time.Hour)
	require.NoError(t, err)

	token, _, err := issuer.Issue(uuid.New(), "admin", models.RoleAdmin)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_VerifyExpired(t *testing.T) {
	// Construct directly so the TTL can be negative
	ts := &TokenService{secret: []byte(testSecret), ttl: -time.Minute}

	token, _, err := ts.Issue(uuid.New(), "admin", models.RoleAdmin)
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsUnexpectedSigningMethod(t *testing.T) {
	ts, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	// alg=none token
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		AdminID:  uuid.New().String(),
		Username: "admin",
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
