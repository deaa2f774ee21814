package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a minimal in-process session table. Lazy expiration on Validate.
// Suitable for single-instance deployments; use the redis store when the
// panel runs more than one replica.
type Memory struct {
	mu   sync.RWMutex
	data map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]time.Time)}
}

func (m *Memory) Issue(_ context.Context, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	m.mu.Lock()
	m.data[token] = time.Now().Add(ttl)
	m.mu.Unlock()
	return token, nil
}

func (m *Memory) Validate(_ context.Context, token string) (bool, error) {
	m.mu.RLock()
	exp, ok := m.data[token]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		m.mu.Lock()
		delete(m.data, token)
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (m *Memory) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.data, token)
	m.mu.Unlock()
	return nil
}
