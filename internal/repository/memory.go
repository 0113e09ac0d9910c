package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"fraud-alert-agent/internal/domain"
)

// MemoryStore is an in-process case and call store. It backs local runs when
// no DynamoDB tables are configured, and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	cases    map[string]domain.Case
	sessions map[string]domain.Session
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cases:    make(map[string]domain.Case),
		sessions: make(map[string]domain.Session),
	}
}

// FindCase implements the case store contract.
func (m *MemoryStore) FindCase(_ context.Context, customerKey string) (domain.Case, error) {
	key := domain.CustomerKey(customerKey)
	m.mu.RLock()
	defer m.mu.RUnlock()
	fc, ok := m.cases[key]
	if !ok {
		return domain.Case{}, fmt.Errorf("repository: FindCase %q: %w", key, domain.ErrCaseNotFound)
	}
	return fc, nil
}

// SaveCase overwrites the mutable fields of an existing row. Concurrent saves
// to the same row are last-write-wins.
func (m *MemoryStore) SaveCase(_ context.Context, fc domain.Case) error {
	key := domain.CustomerKey(fc.CustomerKey)
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.cases[key]
	if !ok {
		return fmt.Errorf("repository: SaveCase %q: %w", key, domain.ErrNotPersisted)
	}
	row.Status = fc.Status
	row.LastUpdated = fc.LastUpdated
	row.OutcomeNote = fc.OutcomeNote
	m.cases[key] = row
	return nil
}

// InsertCase adds a row unless the customer key is already present.
func (m *MemoryStore) InsertCase(_ context.Context, fc domain.Case) (bool, error) {
	key := domain.CustomerKey(fc.CustomerKey)
	if key == "" {
		return false, errors.New("repository: InsertCase: customer key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cases[key]; ok {
		return false, nil
	}
	fc.CustomerKey = key
	m.cases[key] = fc
	return true, nil
}

// CountCases returns the number of stored cases.
func (m *MemoryStore) CountCases(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cases), nil
}

// ListCases returns every case ordered by customer key.
func (m *MemoryStore) ListCases(context.Context) ([]domain.Case, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Case, 0, len(m.cases))
	for _, fc := range m.cases {
		out = append(out, fc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerKey < out[j].CustomerKey })
	return out, nil
}

// GetSession returns a copy of the stored call snapshot, or nil.
func (m *MemoryStore) GetSession(_ context.Context, callID string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[callID]
	if !ok {
		return nil, nil
	}
	return copySession(sess), nil
}

// PutSession stores a copy of the call snapshot.
func (m *MemoryStore) PutSession(_ context.Context, sess *domain.Session) error {
	if sess == nil || sess.CallID == "" {
		return errors.New("repository: PutSession: call id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.CallID] = *copySession(*sess)
	return nil
}

// DeleteSession removes a call snapshot.
func (m *MemoryStore) DeleteSession(_ context.Context, callID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, callID)
	return nil
}

func copySession(sess domain.Session) *domain.Session {
	if sess.Case != nil {
		fc := *sess.Case
		sess.Case = &fc
	}
	return &sess
}
