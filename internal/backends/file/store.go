package file

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"paneld/internal/ports"
	"paneld/internal/sessions"
	"paneld/internal/types"

	"github.com/goccy/go-json"
)

const clientsFileName = "clients.json"

// Store persists the client directory as one JSON array on local disk.
// It owns <dataDir>/clients.json exclusively: every read loads the whole
// document, every create rewrites it. The mutex serializes the
// read-modify-write across requests and persist goes through a temp file plus
// rename, so concurrent creates cannot drop each other's writes.
type Store struct {
	mu   sync.Mutex
	dir  string
	path string
	sess ports.SessionStore

	lastID int64
}

func NewStore(dataDir string, sess ports.SessionStore) *Store {
	return &Store{
		dir:  dataDir,
		path: filepath.Join(dataDir, clientsFileName),
		sess: sess,
	}
}

// List returns every stored record in insertion order. The document is
// lazily created as an empty array on first access; a document that exists
// but cannot be parsed is types.ErrStorageCorrupt, which is distinct from
// "no clients yet".
func (s *Store) List(ctx context.Context) ([]types.ClientRecord, error) {
	if err := sessions.Require(ctx, s.sess); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Create validates the input, assigns a time-derived id and appends the
// record. Later creates get greater-or-equal tokens; callers must not read
// any other ordering semantics into the id.
func (s *Store) Create(ctx context.Context, in types.CreateClientInput) (types.ClientRecord, error) {
	if err := sessions.Require(ctx, s.sess); err != nil {
		return types.ClientRecord{}, err
	}
	rec, err := types.NormalizeClient(types.RawClient{Name: in.Name, Email: in.Email})
	if err != nil {
		return types.ClientRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return types.ClientRecord{}, err
	}
	rec.ID = s.nextID()
	records = append(records, rec)
	if err := s.persist(records); err != nil {
		return types.ClientRecord{}, err
	}
	return rec, nil
}

// load reads the full document, creating it first if absent. Callers hold mu.
func (s *Store) load() ([]types.ClientRecord, error) {
	if err := s.ensureFile(); err != nil {
		return nil, types.Err(types.ErrDataStoreAccess, err, "initialize %s", s.path)
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, types.Err(types.ErrDataStoreAccess, err, "read %s", s.path)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return []types.ClientRecord{}, nil
	}
	var records []types.ClientRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, types.Err(types.ErrStorageCorrupt, err, "parse %s", s.path)
	}
	if records == nil {
		// A literal "null" document still means no clients.
		return []types.ClientRecord{}, nil
	}
	return records, nil
}

func (s *Store) ensureFile() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte("[]"), 0o644)
}

func (s *Store) persist(records []types.ClientRecord) error {
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "encode %s", s.path)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "write %s", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "replace %s", s.path)
	}
	return nil
}

// nextID issues millisecond-epoch tokens, bumped past the previous one when
// two creates land in the same millisecond. Callers hold mu.
func (s *Store) nextID() string {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}
