package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	pkglog "github.com/virtumeet/room-coordinator/pkg/log"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the session claims issued by the upstream identity provider.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Resolver extracts the authenticated display name from a session token.
// The coordinator trusts whatever identity it is handed: with no secret
// configured, or no token supplied, the name the client announced is
// used as-is.
type Resolver struct {
	secret []byte
}

// NewResolver creates a resolver. An empty secret disables token parsing.
func NewResolver(secret string) *Resolver {
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return &Resolver{secret: key}
}

// ResolveDisplayName returns the display name for a join request,
// preferring the token's claim over the announced name.
func (r *Resolver) ResolveDisplayName(token, announced string) string {
	if r.secret == nil || token == "" {
		return announced
	}

	claims, err := r.parse(token)
	if err != nil || claims.DisplayName == "" {
		l := pkglog.L()
		l.Warn().Err(err).Msg("session token rejected, using announced display name")
		return announced
	}
	return claims.DisplayName
}

func (r *Resolver) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return r.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
