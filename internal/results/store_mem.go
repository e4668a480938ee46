package results

import (
	"context"
	"sync"
)

type memStore struct {
	mu        sync.Mutex
	standings map[string]*Standing
	games     []GameResult
}

func NewMemoryStore() Store {
	return &memStore{standings: make(map[string]*Standing)}
}

func (m *memStore) Record(ctx context.Context, r GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games = append(m.games, r)
	for _, p := range r.Players {
		if p.Bot {
			continue
		}
		st, ok := m.standings[p.Name]
		if !ok {
			st = &Standing{Name: p.Name}
			m.standings[p.Name] = st
		}
		st.Games++
		if p.Won {
			st.Wins++
		}
	}
	return nil
}

func (m *memStore) Top(ctx context.Context, n int) ([]Standing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Standing, 0, len(m.standings))
	for _, st := range m.standings {
		out = append(out, *st)
	}
	sortStandings(out)
	return limit(out, n), nil
}
