package auth

import (
	"context"
	"strings"
)

type identityContextKey struct{}

// Identity is the authenticated caller attached to a request context
// after the session cookie has been validated.
type Identity struct {
	UserID int64
	SID    string
	Role   string
}

func (i Identity) IsAdmin() bool {
	return strings.EqualFold(i.Role, "admin")
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}
