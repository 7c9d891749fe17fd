package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type Store interface {
	Get(ctx context.Context, id string) (*Data, bool, error)
	Set(ctx context.Context, id string, data *Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Data is stored serialized so callers
// never share cart slices between requests.
type MemoryStore struct {
	mu        sync.Mutex
	now       func() time.Time
	entries   map[string]memoryEntry
	lastSweep time.Time
}

const sweepInterval = time.Minute

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Data, bool, error) {
	m.mu.Lock()
	entry, ok := m.entries[id]
	if ok && !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, false, nil
	}

	var data Data
	if err := json.Unmarshal(entry.payload, &data); err != nil {
		return nil, false, err
	}
	return &data, true, nil
}

func (m *MemoryStore) Set(_ context.Context, id string, data *Data, ttl time.Duration) error {
	if data == nil {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[id] = entry
	m.sweepLocked()
	m.mu.Unlock()
	return nil
}

// sweepLocked drops expired entries at most once per sweepInterval.
func (m *MemoryStore) sweepLocked() {
	now := m.now()
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now
	for id, entry := range m.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(m.entries, id)
		}
	}
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}
