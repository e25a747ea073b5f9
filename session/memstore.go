package session

import "sync"

// MemStore is an in-memory TokenStore. Sessions stored in it do not
// survive process restarts; it backs tests and ephemeral runs.
type MemStore struct {
	mu    sync.Mutex
	creds Credentials
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds, nil
}

func (s *MemStore) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	return nil
}
