package ports

import (
	"context"
	"paneld/internal/types"
)

// ClientLister lists the client directory.
// Implementations MUST return a non-nil slice on success: an empty slice is
// the canonical "no clients" result, never nil and never an error.
// Order is the backend's natural order and is stable within one call.
type ClientLister interface {
	List(ctx context.Context) ([]types.ClientRecord, error)
}

// ClientCreator appends a new client record.
// MUST return types.ErrValidation for a blank name and types.ErrUnauthorized
// when the caller carries no valid session, in both cases without touching
// the underlying storage.
// Only the file-backed store implements this: the remote registry exposes no
// create operation, so creation targets the file path regardless of which
// backend serves listing.
type ClientCreator interface {
	Create(ctx context.Context, in types.CreateClientInput) (types.ClientRecord, error)
}
