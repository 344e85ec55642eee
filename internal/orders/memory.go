package orders

import (
	"context"
	"sync"
	"time"
)

// MemoryStore: registry in-memory, source of truth selama proses hidup.
// Order tidak pernah dihapus (audit). Semua mutasi di bawah satu mutex;
// tidak ada I/O eksternal yang boleh jalan sambil pegang lock ini.
type MemoryStore struct {
	mu     sync.RWMutex
	byCode map[int64]Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byCode: make(map[int64]Order)}
}

func (s *MemoryStore) Create(_ context.Context, o Order) error {
	if o.Status == "" {
		o.Status = StatusPending
	}
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = o.CreatedAt

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byCode[o.Code]; ok {
		return ErrAlreadyExists
	}
	s.byCode[o.Code] = o
	return nil
}

func (s *MemoryStore) Get(_ context.Context, code int64) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byCode[code]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

// Transition: read-check-write atomik di bawah lock.
// Pada ErrConflict snapshot terkini tetap dikembalikan.
func (s *MemoryStore) Transition(_ context.Context, code int64, from, to Status) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.byCode[code]
	if !ok {
		return Order{}, ErrNotFound
	}
	if o.Status != from || !CanTransition(from, to) {
		return o, ErrConflict
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	s.byCode[code] = o
	return o, nil
}
