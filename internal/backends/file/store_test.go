package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"paneld/internal/sessions"
	"paneld/internal/types"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite

	dataDir string
	store   *Store
	authed  context.Context
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.dataDir = s.T().TempDir()
	sess := sessions.NewMemory()
	s.store = NewStore(s.dataDir, sess)

	token, err := sess.Issue(context.Background(), time.Hour)
	s.Require().NoError(err)
	s.authed = sessions.WithToken(context.Background(), token)
}

func (s *StoreTestSuite) documentPath() string {
	return filepath.Join(s.dataDir, clientsFileName)
}

func (s *StoreTestSuite) TestListFreshStoreCreatesEmptyDocument() {
	records, err := s.store.List(s.authed)
	s.NoError(err)
	s.NotNil(records)
	s.Empty(records)

	// Lazy initialization leaves an empty array behind, not an error.
	b, err := os.ReadFile(s.documentPath())
	s.NoError(err)
	s.JSONEq(`[]`, string(b))
}

func (s *StoreTestSuite) TestCreateThenListIncludesRecord() {
	rec, err := s.store.Create(s.authed, types.CreateClientInput{Name: "Ana", Email: "ana@example.com"})
	s.NoError(err)
	s.NotEmpty(rec.ID)
	s.Equal("Ana", rec.Name)

	records, err := s.store.List(s.authed)
	s.NoError(err)
	s.Require().Len(records, 1)
	s.Equal(rec, records[0])
}

func (s *StoreTestSuite) TestCreateIDsAreMonotonic() {
	var prev string
	for i := 0; i < 5; i++ {
		rec, err := s.store.Create(s.authed, types.CreateClientInput{Name: "Ana"})
		s.Require().NoError(err)
		s.Greater(rec.ID, prev)
		prev = rec.ID
	}
}

func (s *StoreTestSuite) TestCreateMissingNameAppendsNothing() {
	_, err := s.store.Create(s.authed, types.CreateClientInput{Email: "no-name@example.com"})
	s.ErrorIs(err, types.ErrValidation)

	records, err := s.store.List(s.authed)
	s.NoError(err)
	s.Empty(records)
}

func (s *StoreTestSuite) TestCorruptDocument() {
	s.Require().NoError(os.MkdirAll(s.dataDir, 0o755))
	s.Require().NoError(os.WriteFile(s.documentPath(), []byte("{definitely not an array"), 0o644))

	_, err := s.store.List(s.authed)
	s.ErrorIs(err, types.ErrStorageCorrupt)

	_, err = s.store.Create(s.authed, types.CreateClientInput{Name: "Ana"})
	s.ErrorIs(err, types.ErrStorageCorrupt)
}

func (s *StoreTestSuite) TestEmptyAndNullDocumentsMeanNoClients() {
	s.Require().NoError(os.WriteFile(s.documentPath(), []byte(""), 0o644))
	records, err := s.store.List(s.authed)
	s.NoError(err)
	s.Empty(records)

	s.Require().NoError(os.WriteFile(s.documentPath(), []byte("null"), 0o644))
	records, err = s.store.List(s.authed)
	s.NoError(err)
	s.NotNil(records)
	s.Empty(records)
}

func (s *StoreTestSuite) TestUnauthorizedShortCircuitsBeforeDiskIO() {
	ctx := context.Background()

	_, err := s.store.List(ctx)
	s.ErrorIs(err, types.ErrUnauthorized)

	_, err = s.store.Create(ctx, types.CreateClientInput{Name: "Ana"})
	s.ErrorIs(err, types.ErrUnauthorized)

	_, err = s.store.Create(sessions.WithToken(ctx, "forged"), types.CreateClientInput{Name: "Ana"})
	s.ErrorIs(err, types.ErrUnauthorized)

	// No side effects: the document was never even lazily created.
	_, err = os.Stat(s.documentPath())
	s.True(os.IsNotExist(err))
}

func (s *StoreTestSuite) TestConcurrentCreatesLoseNoWrites() {
	const n = 20

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.store.Create(s.authed, types.CreateClientInput{Name: "Ana"})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		s.NoError(err)
	}

	records, err := s.store.List(s.authed)
	s.NoError(err)
	s.Require().Len(records, n)

	ids := make(map[string]struct{}, n)
	for _, rec := range records {
		ids[rec.ID] = struct{}{}
	}
	s.Len(ids, n)

	// The persisted document agrees with the in-process view.
	b, err := os.ReadFile(s.documentPath())
	s.Require().NoError(err)
	var stored []types.ClientRecord
	s.Require().NoError(json.Unmarshal(b, &stored))
	s.Len(stored, n)
}

func (s *StoreTestSuite) TestEmailOmittedWhenAbsent() {
	rec, err := s.store.Create(s.authed, types.CreateClientInput{Name: "Ana"})
	s.Require().NoError(err)
	s.Empty(rec.Email)

	b, err := os.ReadFile(s.documentPath())
	s.Require().NoError(err)
	s.NotContains(string(b), `"email"`)
}
