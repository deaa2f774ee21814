package directory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"paneld/internal/backends/file"
	"paneld/internal/sessions"
	"paneld/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	records []types.ClientRecord
	err     error
}

func (f *fakeLister) List(context.Context) ([]types.ClientRecord, error) {
	return f.records, f.err
}

type fakeCreator struct {
	rec types.ClientRecord
	err error
}

func (f *fakeCreator) Create(context.Context, types.CreateClientInput) (types.ClientRecord, error) {
	return f.rec, f.err
}

func TestListClientsPassesThroughRecords(t *testing.T) {
	want := []types.ClientRecord{{ID: "1", Name: "Ana"}}
	f := New(&fakeLister{records: want}, &fakeCreator{})

	got, err := f.ListClients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestListClientsFailsOpenOnBackendErrors(t *testing.T) {
	for _, backendErr := range []error{
		types.Err(types.ErrRegistryUnavailable, nil, "registry call failed"),
		types.Err(types.ErrStorageCorrupt, nil, "parse clients.json"),
		types.Err(types.ErrDataStoreAccess, nil, "read clients.json"),
	} {
		f := New(&fakeLister{err: backendErr}, &fakeCreator{})
		got, err := f.ListClients(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestListClientsSurfacesUnauthorized(t *testing.T) {
	f := New(&fakeLister{err: types.Err(types.ErrUnauthorized, nil, "no session")}, &fakeCreator{})
	_, err := f.ListClients(context.Background())
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestListClientsNeverReturnsNil(t *testing.T) {
	f := New(&fakeLister{records: nil}, &fakeCreator{})
	got, err := f.ListClients(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestCreateClientPropagatesActionableErrors(t *testing.T) {
	f := New(&fakeLister{}, &fakeCreator{err: types.Err(types.ErrValidation, nil, "name required")})
	_, err := f.CreateClient(context.Background(), types.CreateClientInput{})
	assert.ErrorIs(t, err, types.ErrValidation)

	f = New(&fakeLister{}, &fakeCreator{err: types.Err(types.ErrUnauthorized, nil, "no session")})
	_, err = f.CreateClient(context.Background(), types.CreateClientInput{Name: "Ana"})
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestCreateClientFailsLoudOnStorageErrors(t *testing.T) {
	f := New(&fakeLister{}, &fakeCreator{err: types.Err(types.ErrDataStoreAccess, nil, "disk full")})
	_, err := f.CreateClient(context.Background(), types.CreateClientInput{Name: "Ana"})
	assert.ErrorIs(t, err, types.ErrDataStoreAccess)
}

// End-to-end fail-open property against the real file store: a corrupt
// document makes the store error but the facade still lists empty.
func TestListClientsFailsOpenOnCorruptStore(t *testing.T) {
	dataDir := t.TempDir()
	sess := sessions.NewMemory()
	store := file.NewStore(dataDir, sess)

	token, err := sess.Issue(context.Background(), time.Hour)
	require.NoError(t, err)
	ctx := sessions.WithToken(context.Background(), token)

	// Seed then corrupt the document.
	_, err = store.Create(ctx, types.CreateClientInput{Name: "Ana"})
	require.NoError(t, err)
	corruptStoredDocument(t, dataDir)

	f := New(store, store)
	records, err := f.ListClients(ctx)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func corruptStoredDocument(t *testing.T, dataDir string) {
	t.Helper()
	path := filepath.Join(dataDir, "clients.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
}
