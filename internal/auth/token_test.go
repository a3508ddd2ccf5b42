package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens, err := NewTokens("secret_ecom", 0)
	require.NoError(t, err)

	raw, err := tokens.Issue("user-1")
	require.NoError(t, err)

	id, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(raw, claims)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
	assert.Equal(t, "user-1", claims.User.ID)
}

func TestTokensRejectInvalid(t *testing.T) {
	tokens, err := NewTokens("secret_ecom", 0)
	require.NoError(t, err)
	other, err := NewTokens("another", 0)
	require.NoError(t, err)

	foreign, err := other.Issue("user-1")
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"empty":        "",
		"blank":        "   ",
		"garbage":      "not-a-token",
		"wrong secret": foreign,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Verify(raw)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestTokensRejectOtherAlgorithms(t *testing.T) {
	tokens, err := NewTokens("secret_ecom", 0)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{User: TokenUser{ID: "user-1"}}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.Verify(unsigned)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestTokensWithoutUserAreRejected(t *testing.T) {
	tokens, err := NewTokens("secret_ecom", 0)
	require.NoError(t, err)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{}).SignedString([]byte("secret_ecom"))
	require.NoError(t, err)

	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestTokensExpiry(t *testing.T) {
	tokens, err := NewTokens("secret_ecom", time.Minute)
	require.NoError(t, err)

	issued := time.Now()
	tokens.now = func() time.Time { return issued }
	raw, err := tokens.Issue("user-1")
	require.NoError(t, err)

	_, err = tokens.Verify(raw)
	require.NoError(t, err)

	tokens.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestNewTokensRequiresSecret(t *testing.T) {
	_, err := NewTokens(" ", 0)
	assert.Error(t, err)

	tokens, err := NewTokens("s", 0)
	require.NoError(t, err)
	_, err = tokens.Issue("")
	assert.Error(t, err)
}
