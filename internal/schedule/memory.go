package schedule

import (
	"slices"
	"sync"

	"pet-manager-api/internal/model"
)

// MemoryStore keeps one appointment list per user in process memory.
// Everything is lost on restart.
type MemoryStore struct {
	mu    sync.Mutex
	lists map[int64][]model.Appointment
	seed  []model.Appointment
}

// NewMemoryStore returns an empty store. A user's list starts as a copy of
// seed the first time it is touched.
func NewMemoryStore(seed ...model.Appointment) *MemoryStore {
	return &MemoryStore{
		lists: make(map[int64][]model.Appointment),
		seed:  seed,
	}
}

// caller holds mu
func (m *MemoryStore) list(uid int64) []model.Appointment {
	l, ok := m.lists[uid]
	if !ok {
		l = slices.Clone(m.seed)
		m.lists[uid] = l
	}
	return l
}

func (m *MemoryStore) List(uid int64) []model.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.list(uid))
}

// Create adds a new appointment; any id on a is replaced.
func (m *MemoryStore) Create(uid int64, a model.Appointment) (model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a.ID = ""
	next, saved, err := Upsert(m.list(uid), a)
	if err != nil {
		return model.Appointment{}, err
	}
	m.lists[uid] = next
	return saved, nil
}

func (m *MemoryStore) Update(uid int64, id string, a model.Appointment) (model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.list(uid)
	if index(cur, id) < 0 {
		return model.Appointment{}, ErrNotFound
	}
	a.ID = id
	next, saved, err := Upsert(cur, a)
	if err != nil {
		return model.Appointment{}, err
	}
	m.lists[uid] = next
	return saved, nil
}

func (m *MemoryStore) Complete(uid int64, id string) (model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, ok := MarkComplete(m.list(uid), id)
	if !ok {
		return model.Appointment{}, ErrNotFound
	}
	m.lists[uid] = next
	return next[index(next, id)], nil
}

func (m *MemoryStore) Remove(uid int64, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, ok := Delete(m.list(uid), id)
	if !ok {
		return ErrNotFound
	}
	m.lists[uid] = next
	return nil
}
