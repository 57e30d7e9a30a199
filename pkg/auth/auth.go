// Package auth defines the authenticator capability contract. An
// authenticator inspects request credentials and either produces an
// identity or rejects the request with one of the sentinel errors.
package auth

import (
	"context"
	"errors"
	"net/http"
)

// Identity represents an authenticated caller.
type Identity struct {
	// Subject is the unique identifier of the caller (required, non-empty).
	Subject string

	// Claims carries the decoded credential payload.
	Claims map[string]any
}

// Authenticator examines request credentials. On success it returns the
// decoded identity; on failure it returns one of the sentinel errors below.
// A nil Authenticator on an endpoint means "always allow".
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (*Identity, error)
}

// Sentinel errors. The dispatcher maps ErrNoCredential and
// ErrInvalidCredential to 401 and ErrForbidden to 403.
var (
	ErrNoCredential      = errors.New("authentication required")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrForbidden         = errors.New("access denied")
)
