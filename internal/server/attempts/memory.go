package attempts

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	state   State
	expires time.Time
}

// Memory keeps attempt state in process. Suitable for a single instance.
// Like Redis, an entry is forgotten once ttl passes without a write; a
// non-positive ttl keeps entries until Clear.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

// IdleTTL is how long an entry survives without a write.
func (m *Memory) IdleTTL() time.Duration { return m.ttl }

// live returns the entry for username unless it expired before t.
func (m *Memory) live(username string, t time.Time) State {
	e, ok := m.entries[username]
	if !ok {
		return State{}
	}
	if !e.expires.IsZero() && t.After(e.expires) {
		delete(m.entries, username)
		return State{}
	}
	return e.state
}

func (m *Memory) store(username string, s State, at time.Time) {
	e := memoryEntry{state: s}
	if m.ttl > 0 {
		e.expires = at.Add(m.ttl)
	}
	m.entries[username] = e
}

func (m *Memory) Get(_ context.Context, username string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live(username, m.now()), nil
}

func (m *Memory) Fail(_ context.Context, username string, at time.Time) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.live(username, at)
	s.Attempts++
	s.Last = at
	m.store(username, s, at)
	return s, nil
}

func (m *Memory) Reset(_ context.Context, username string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store(username, State{Last: at}, at)
	return nil
}

func (m *Memory) Clear(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, username)
	return nil
}
