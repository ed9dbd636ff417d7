package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, displayName string) string {
	t.Helper()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:      "u1",
		DisplayName: displayName,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestResolver_NoSecretTrustsAnnouncedName(t *testing.T) {
	r := NewResolver("")
	require.Equal(t, "Alice", r.ResolveDisplayName("whatever", "Alice"))
	require.Equal(t, "Alice", r.ResolveDisplayName("", "Alice"))
}

func TestResolver_TokenClaimWins(t *testing.T) {
	r := NewResolver("sekrit")
	token := signToken(t, "sekrit", "Alice Authenticated")
	require.Equal(t, "Alice Authenticated", r.ResolveDisplayName(token, "Alice"))
}

func TestResolver_MissingTokenFallsBack(t *testing.T) {
	r := NewResolver("sekrit")
	require.Equal(t, "Alice", r.ResolveDisplayName("", "Alice"))
}

func TestResolver_BadTokenFallsBack(t *testing.T) {
	r := NewResolver("sekrit")

	// Wrong signing key.
	forged := signToken(t, "other-key", "Mallory")
	require.Equal(t, "Alice", r.ResolveDisplayName(forged, "Alice"))

	// Garbage.
	require.Equal(t, "Alice", r.ResolveDisplayName("not-a-token", "Alice"))
}

func TestResolver_EmptyClaimFallsBack(t *testing.T) {
	r := NewResolver("sekrit")
	token := signToken(t, "sekrit", "")
	require.Equal(t, "Alice", r.ResolveDisplayName(token, "Alice"))
}
