// Package lease provides per-key mutual exclusion for pipeline runs,
// in process or across processes through Redis.
package lease

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "speech-insight/internal/app/errors"
)

// DefaultTTL bounds how long a crashed holder can block a key
const DefaultTTL = 30 * time.Minute

// Lease is a held key
type Lease interface {
	Release(ctx context.Context) error
}

// Locker hands out leases. Acquire returns errors.ErrLeaseHeld when the key is taken.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

type memoryEntry struct {
	token   string
	expires time.Time
}

// MemoryLocker is a Locker for a single process
type MemoryLocker struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ Locker = (*MemoryLocker)(nil)

// NewMemoryLocker creates an empty MemoryLocker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Acquire implements Locker. Expired leases are taken over.
func (l *MemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (Lease, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.entries[key]; ok && now.Before(e.expires) {
		return nil, apperrors.ErrLeaseHeld
	}
	token := uuid.NewString()
	l.entries[key] = memoryEntry{token: token, expires: now.Add(ttl)}
	return &memoryLease{locker: l, key: key, token: token}, nil
}

type memoryLease struct {
	locker *MemoryLocker
	key    string
	token  string
}

func (m *memoryLease) Release(context.Context) error {
	m.locker.mu.Lock()
	defer m.locker.mu.Unlock()
	if e, ok := m.locker.entries[m.key]; ok && e.token == m.token {
		delete(m.locker.entries, m.key)
	}
	return nil
}
