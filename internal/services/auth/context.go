package auth

import (
	"context"

	"github.com/mlisovenko/vitrina/backend/internal/domain/enums"
)

type identityContextKey struct{}

// Identity is the authenticated caller attached to a request context by the
// HTTP middleware after the access token and its session check out.
type Identity struct {
	UserID int64
	SID    string
	Role   enums.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == enums.RoleAdmin
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}
