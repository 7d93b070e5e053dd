package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	user      User
	expiresAt time.Time
}

// MemoryBackend keeps sessions in process memory. Sessions do not survive a restart
// and are not shared between instances.
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryBackend returns an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (b *MemoryBackend) Get(ctx context.Context, id string) (*User, error) {
	b.mu.RLock()
	entry, ok := b.sessions[id]
	b.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if b.now().After(entry.expiresAt) {
		b.mu.Lock()
		delete(b.sessions, id)
		b.mu.Unlock()
		return nil, nil
	}
	u := entry.user
	return &u, nil
}

func (b *MemoryBackend) Set(ctx context.Context, id string, u *User, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[id] = memoryEntry{user: *u, expiresAt: b.now().Add(ttl)}
	return nil
}

func (b *MemoryBackend) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, id)
	return nil
}

// Len reports how many sessions are held, expired ones included
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessions)
}
