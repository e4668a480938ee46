package matchmaker

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	room    Room
	expires time.Time
}

type memRepo struct {
	mu      sync.Mutex
	rooms   map[string]memEntry // roomID -> room
	players map[string]string   // name -> roomID
	now     func() time.Time
}

func NewMemoryRepo() Repo {
	return &memRepo{
		rooms:   make(map[string]memEntry),
		players: make(map[string]string),
		now:     time.Now,
	}
}

func (m *memRepo) SaveRoom(ctx context.Context, room *Room, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[room.ID] = memEntry{
		room:    *room,
		expires: m.now().Add(time.Duration(ttlSeconds) * time.Second),
	}
	m.players[room.Player] = room.ID
	return nil
}

// getLocked 顺带清理过期房间，与 Redis TTL 行为对齐
func (m *memRepo) getLocked(roomID string) (*Room, bool) {
	e, ok := m.rooms[roomID]
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expires) {
		delete(m.rooms, roomID)
		if m.players[e.room.Player] == roomID {
			delete(m.players, e.room.Player)
		}
		return nil, false
	}
	r := e.room
	return &r, true
}

func (m *memRepo) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, _ := m.getLocked(roomID)
	return r, nil
}

func (m *memRepo) PlayerRoom(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.players[name]
	if !ok {
		return "", nil
	}
	if _, ok := m.getLocked(id); !ok {
		return "", nil
	}
	return id, nil
}

func (m *memRepo) Remove(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.players[name]
	if !ok {
		return "", nil
	}
	delete(m.players, name)
	delete(m.rooms, id)
	return id, nil
}
