package ports

import (
	"context"
	"time"
)

// SessionStore tracks the admin session tokens carried by the panel's
// HTTP-only cookie. Tokens are opaque and expire server-side after ttl.
type SessionStore interface {
	// Issue mints a fresh token valid for ttl.
	Issue(ctx context.Context, ttl time.Duration) (string, error)

	// Validate reports whether token is known and unexpired.
	// An unknown or expired token is (false, nil), not an error.
	Validate(ctx context.Context, token string) (bool, error)

	// Revoke discards a token. Revoking an unknown token is a no-op.
	Revoke(ctx context.Context, token string) error
}
