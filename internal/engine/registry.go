package engine

import (
	"sync"

	"github.com/Memartyes/y-lab-uni-sub000/internal/room"
)

// Registry stores rooms keyed by name. The engine only touches rooms
// through a Registry, so a persistence-backed implementation can
// replace the in-memory one without changing the engine.
type Registry interface {
	// Get returns the room under the name.
	Get(name string) (*room.Room, bool)
	// Insert stores the room; it fails with ErrRoomExists when the name
	// is taken.
	Insert(name string, r *room.Room) error
	// Delete removes the entry; it fails with ErrRoomNotFound when missing.
	Delete(name string) error
	// Rename atomically re-keys an entry. No intermediate state is
	// visible to concurrent lookups.
	Rename(oldName, newName string) error
	// List returns the stored rooms. Iteration order is not guaranteed.
	List() []*room.Room
}

// memoryRegistry is the default in-process Registry.
type memoryRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*room.Room
}

// NewMemoryRegistry returns an empty in-memory registry.
func NewMemoryRegistry() Registry {
	return &memoryRegistry{rooms: make(map[string]*room.Room)}
}

func (m *memoryRegistry) Get(name string) (*room.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[name]
	return r, ok
}

func (m *memoryRegistry) Insert(name string, r *room.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[name]; ok {
		return ErrRoomExists
	}
	m.rooms[name] = r
	return nil
}

func (m *memoryRegistry) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[name]; !ok {
		return ErrRoomNotFound
	}
	delete(m.rooms, name)
	return nil
}

func (m *memoryRegistry) Rename(oldName, newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[oldName]
	if !ok {
		return ErrRoomNotFound
	}
	if _, taken := m.rooms[newName]; taken {
		return ErrRoomExists
	}
	delete(m.rooms, oldName)
	m.rooms[newName] = r
	r.Rename(newName)
	return nil
}

func (m *memoryRegistry) List() []*room.Room {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]*room.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}
