package mock

import (
	"sync"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// Store is the in-memory key space of the mock server.
type Store struct {
	mu   sync.RWMutex
	tree *redblacktree.Tree
}

func NewStore() *Store {
	return &Store{tree: redblacktree.NewWithStringComparator()}
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.tree.Get(key)
	if !ok {
		return "", false
	}

	return v.(string), true
}

func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree.Put(key, value)
}

func (s *Store) Del(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree.Remove(key)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tree.Size()
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree.Clear()
}

// Keys returns all keys in ascending order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, s.tree.Size())
	for _, k := range s.tree.Keys() {
		keys = append(keys, k.(string))
	}

	return keys
}
