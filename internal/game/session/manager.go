package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrNotFound is returned for an unknown session id or code.
	ErrNotFound = errors.New("session not found")
	// ErrExists is returned when registering a session id twice.
	ErrExists = errors.New("session already exists")
	// ErrPlayerExists is returned when a player id joins a session twice.
	ErrPlayerExists = errors.New("player already in session")
)

// entry guards one session. Its mutex is held for the whole of an Update so
// exactly one turn is in flight per session.
type entry struct {
	mu    sync.Mutex
	code  string
	state *State
}

// Manager tracks all live sessions.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*entry)}
}

// Create registers s.
//
// Precondition: s.ID must be non-empty.
// Postcondition: Returns ErrExists if the id is already registered.
func (m *Manager) Create(s *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.ID]; exists {
		return fmt.Errorf("%w: %q", ErrExists, s.ID)
	}
	m.sessions[s.ID] = &entry{code: s.Code, state: s}
	return nil
}

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return e, nil
}

// Get returns a snapshot copy of the session.
func (m *Manager) Get(id string) (*State, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone(), nil
}

// FindByCode returns a snapshot of the session with the given join code.
func (m *Manager) FindByCode(code string) (*State, error) {
	m.mu.RLock()
	var found *entry
	for _, e := range m.sessions {
		if e.code != "" && strings.EqualFold(e.code, code) {
			found = e
			break
		}
	}
	m.mu.RUnlock()
	if found == nil {
		return nil, fmt.Errorf("%w: code %q", ErrNotFound, code)
	}
	found.mu.Lock()
	defer found.mu.Unlock()
	return found.state.Clone(), nil
}

// Update serializes a mutation of session id. fn receives a private copy of
// the current state and returns the state to commit; when fn fails nothing
// is committed.
//
// Postcondition: Returns a snapshot of the committed state.
func (m *Manager) Update(id string, fn func(cur *State) (*State, error)) (*State, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := fn(e.state.Clone())
	if err != nil {
		return nil, err
	}
	e.state = next
	return next.Clone(), nil
}

// Remove drops a session.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
