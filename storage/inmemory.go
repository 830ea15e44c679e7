package storage

import (
	"sync"
)

type InMemory struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewInMemory() *InMemory {
	return &InMemory{sessions: make(map[string]Session, 4)}
}

func (m *InMemory) GetSession(host string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, exists := m.sessions[host]
	if !exists {
		return nil, ErrSessionNotFound
	}
	s.Cookies = append([]Cookie(nil), s.Cookies...)
	return &s, nil
}

func (m *InMemory) SaveSession(session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *session
	s.Cookies = append([]Cookie(nil), session.Cookies...)
	m.sessions[session.Host] = s
	return nil
}

func (m *InMemory) DeleteSession(host string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, host)
	return nil
}
