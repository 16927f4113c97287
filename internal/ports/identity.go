package ports

import "context"

// AuthClaims is the identity resolved from a bearer credential: the caller's
// user id plus their role capability set. It is resolved once per request and
// passed into every operation.
type AuthClaims struct {
	UserID string
	Email  string
	Roles  []string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (AuthClaims, error)
}
