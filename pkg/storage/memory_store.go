package storage

// MemoryStore is a VisitedSet backed by a Go map
type MemoryStore struct {
	seen map[string]struct{}
}

var _ VisitedSet = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

// MarkVisited implements the VisitedSet interface
func (s *MemoryStore) MarkVisited(rawURL string) (bool, error) {
	if _, ok := s.seen[rawURL]; ok {
		return false, nil
	}
	s.seen[rawURL] = struct{}{}
	return true, nil
}

// IsVisited implements the VisitedSet interface
func (s *MemoryStore) IsVisited(rawURL string) (bool, error) {
	_, ok := s.seen[rawURL]
	return ok, nil
}

// Count implements the VisitedSet interface
func (s *MemoryStore) Count() (int, error) { return len(s.seen), nil }

// Close implements the VisitedSet interface
func (s *MemoryStore) Close() error { return nil }
