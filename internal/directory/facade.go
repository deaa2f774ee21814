package directory

import (
	"context"
	"errors"

	"paneld/internal/ports"
	"paneld/internal/types"

	log "github.com/sirupsen/logrus"
)

// Facade is the single directory contract the panel handlers consume.
//
// The two operations carry deliberately different failure policies. Listing
// is fail-open: the directory page must render even when the data source is
// down, so any backend failure degrades to an empty result and is recorded in
// logs and metrics only. Creation is fail-loud: a write that silently fails
// violates user trust, so every creation error reaches the caller.
//
// Creation always targets the file-backed store, even when listing is served
// by the remote registry. That asymmetry mirrors a migration still in
// progress upstream; do not unify the write paths without an explicit
// decision on where created clients should live.
type Facade struct {
	lister  ports.ClientLister
	creator ports.ClientCreator
}

func New(lister ports.ClientLister, creator ports.ClientCreator) *Facade {
	return &Facade{lister: lister, creator: creator}
}

// ListClients returns the directory in backend order. The only error it ever
// surfaces is types.ErrUnauthorized; everything else becomes an empty,
// non-nil slice plus a diagnostic.
func (f *Facade) ListClients(ctx context.Context) ([]types.ClientRecord, error) {
	records, err := f.lister.List(ctx)
	if err != nil {
		if errors.Is(err, types.ErrUnauthorized) {
			return nil, err
		}
		cause := failureCause(err)
		listFailures.WithLabelValues(cause).Inc()
		log.WithError(err).WithField("cause", cause).Error("client listing degraded to empty result")
		return []types.ClientRecord{}, nil
	}
	if records == nil {
		records = []types.ClientRecord{}
	}
	return records, nil
}

// CreateClient appends a record through the file-backed store.
// types.ErrValidation and types.ErrUnauthorized pass through untouched so the
// caller can correct input or re-authenticate; storage failures are counted
// and propagate.
func (f *Facade) CreateClient(ctx context.Context, in types.CreateClientInput) (types.ClientRecord, error) {
	rec, err := f.creator.Create(ctx, in)
	if err != nil {
		if !errors.Is(err, types.ErrValidation) && !errors.Is(err, types.ErrUnauthorized) {
			createFailures.Inc()
			log.WithError(err).Error("client creation failed")
		}
		return types.ClientRecord{}, err
	}
	return rec, nil
}

func failureCause(err error) string {
	switch {
	case errors.Is(err, types.ErrStorageCorrupt):
		return "storage_corrupt"
	case errors.Is(err, types.ErrRegistryUnavailable):
		return "registry_unavailable"
	case errors.Is(err, types.ErrDataStoreAccess):
		return "data_store"
	default:
		return "unknown"
	}
}
