package reservation

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// MemStore keeps reservations in process memory. Counters are lost on restart.
type MemStore struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]string{}}
}

func (s *MemStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemStore) Ping(context.Context) error { return nil }

func (s *MemStore) DecrementIfPositive(_ context.Context, key string, initial int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := initial
	if v, ok := s.m[key]; ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %s=%q", ErrBadValue, key, v)
		}
		n = parsed
	}
	if n <= 0 {
		return 0, false, nil
	}

	s.m[key] = strconv.Itoa(n - 1)
	return n - 1, true, nil
}
