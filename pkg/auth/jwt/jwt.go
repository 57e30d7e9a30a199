// Package jwt provides an HMAC-signed bearer-token authenticator.
// Tokens are validated for signature and expiry; the decoded claims are
// attached to the identity for downstream use (cache keying, handlers).
package jwt

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/veldt-io/tabular/pkg/auth"
)

// Config holds the JWT authenticator configuration.
type Config struct {
	// Secret is the HMAC signing key (required).
	Secret string

	// Algorithm is the expected signing method. Default: "HS256".
	Algorithm string

	// SubjectClaim is the claim used as the identity subject. Default: "sub".
	SubjectClaim string

	// RequiredScope, when non-empty, must appear in the token's "scope"
	// claim (space-separated). A verified token lacking the scope is
	// rejected with auth.ErrForbidden rather than 401.
	RequiredScope string

	// TokenTTL is the lifetime applied by Mint. Default: 1 hour.
	TokenTTL time.Duration
}

func (c *Config) applyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = "HS256"
	}
	if c.SubjectClaim == "" {
		c.SubjectClaim = "sub"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = time.Hour
	}
}

// Authenticator validates HMAC-signed bearer tokens.
type Authenticator struct {
	config Config
}

// Ensure Authenticator implements auth.Authenticator at compile time.
var _ auth.Authenticator = (*Authenticator)(nil)

// New creates a JWT authenticator with the given configuration.
func New(cfg Config) *Authenticator {
	cfg.applyDefaults()
	return &Authenticator{config: cfg}
}

// Authenticate extracts and verifies the bearer token. A missing or
// non-bearer Authorization header yields auth.ErrNoCredential; a token
// that fails verification or has expired yields auth.ErrInvalidCredential.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) (*auth.Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, auth.ErrNoCredential
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	claims := jwtlib.MapClaims{}
	token, err := jwtlib.ParseWithClaims(tokenString, claims, a.keyFunc,
		jwtlib.WithValidMethods([]string{a.config.Algorithm}),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, auth.ErrInvalidCredential
	}

	subject, _ := claims[a.config.SubjectClaim].(string)
	if subject == "" {
		return nil, auth.ErrInvalidCredential
	}

	if a.config.RequiredScope != "" && !hasScope(claims, a.config.RequiredScope) {
		return nil, auth.ErrForbidden
	}

	return &auth.Identity{Subject: subject, Claims: claims}, nil
}

func (a *Authenticator) keyFunc(token *jwtlib.Token) (any, error) {
	if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(a.config.Secret), nil
}

// hasScope reports whether the space-separated "scope" claim contains want.
func hasScope(claims jwtlib.MapClaims, want string) bool {
	raw, _ := claims["scope"].(string)
	for _, s := range strings.Fields(raw) {
		if s == want {
			return true
		}
	}
	return false
}

// Mint creates a signed token carrying the given claims plus an expiry of
// now + TokenTTL. Intended for tests and login endpoints built on top of
// the framework.
func (a *Authenticator) Mint(claims map[string]any) (string, error) {
	mc := jwtlib.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["exp"] = time.Now().Add(a.config.TokenTTL).Unix()

	token := jwtlib.NewWithClaims(jwtlib.GetSigningMethod(a.config.Algorithm), mc)
	return token.SignedString([]byte(a.config.Secret))
}
