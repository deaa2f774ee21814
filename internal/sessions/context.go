package sessions

import (
	"context"
	"paneld/internal/ports"
	"paneld/internal/types"
)

type tokenKey struct{}

// WithToken attaches the caller's session token to the request context so
// storage-level guards can re-check it without reaching back into HTTP.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the session token attached by WithToken.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// Require validates the context's session token against store. It returns
// types.ErrUnauthorized when the token is missing, unknown or expired, so
// guarded operations can short-circuit before any I/O on their own resource.
func Require(ctx context.Context, store ports.SessionStore) error {
	token, ok := TokenFromContext(ctx)
	if !ok {
		return types.Err(types.ErrUnauthorized, nil, "no session token")
	}
	valid, err := store.Validate(ctx, token)
	if err != nil {
		return types.Err(types.ErrUnauthorized, err, "session validation failed")
	}
	if !valid {
		return types.Err(types.ErrUnauthorized, nil, "unknown or expired session")
	}
	return nil
}
