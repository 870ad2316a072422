package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resort/internal/app/services/auth"
	domainauth "resort/internal/domain/auth"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := BcryptHasher{Cost: 4}
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.Error(t, h.Compare(hash, "wrong horse"))
}

func TestBcryptHasherReportsOverlongPasswords(t *testing.T) {
	_, err := BcryptHasher{Cost: 4}.Hash(strings.Repeat("a", 80))
	require.ErrorIs(t, err, auth.ErrPasswordTooLong)
	assert.Contains(t, err.Error(), "80 bytes")

	_, err = BcryptHasher{Cost: 4}.Hash(strings.Repeat("a", 72))
	assert.NoError(t, err)
}

func TestJWTIssuerRoundTrip(t *testing.T) {
	issuer, err := NewJWTIssuer("secret", "resort")
	require.NoError(t, err)
	now := time.Now().UTC().Truncate(time.Second)
	in := auth.Claims{
		TokenID:   domainauth.TokenID("tok-1"),
		GuestID:   42,
		Email:     "admin@resort.test",
		Admin:     true,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
	raw, err := issuer.Issue(in)
	require.NoError(t, err)

	out, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, in.TokenID, out.TokenID)
	assert.Equal(t, in.GuestID, out.GuestID)
	assert.Equal(t, in.Email, out.Email)
	assert.True(t, out.Admin)
	assert.True(t, in.ExpiresAt.Equal(out.ExpiresAt))
}

func TestJWTIssuerRejectsExpiredAndForeignTokens(t *testing.T) {
	issuer, err := NewJWTIssuer("secret", "resort")
	require.NoError(t, err)
	past := time.Now().Add(-2 * time.Hour)
	expired, err := issuer.Issue(auth.Claims{TokenID: "t", GuestID: 1, IssuedAt: past, ExpiresAt: past.Add(time.Minute)})
	require.NoError(t, err)
	_, err = issuer.Parse(expired)
	assert.Error(t, err)

	other, err := NewJWTIssuer("another-secret", "resort")
	require.NoError(t, err)
	foreign, err := other.Issue(auth.Claims{TokenID: "t", GuestID: 1, IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	_, err = issuer.Parse(foreign)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{ID: "t", Subject: "1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Parse(unsigned)
	assert.Error(t, err)
}

func TestNewJWTIssuerRequiresSecret(t *testing.T) {
	_, err := NewJWTIssuer("", "resort")
	assert.ErrorIs(t, err, ErrSecretRequired)
}
