package session

import "sync"

// Listener observes the state after each transition.
type Listener func(State)

// Store owns the session of one running client. It is safe for concurrent
// use; concurrent dispatches are applied in lock order.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// NewStore returns a store in the Initial state.
func NewStore() *Store {
	return &Store{state: Initial(), listeners: map[int]Listener{}}
}

// Dispatch applies a and notifies listeners with the resulting snapshot.
// Listeners run outside the lock and may dispatch themselves.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	snap := s.state.clone()
	ls := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			ls = append(ls, l)
		}
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(snap.clone())
	}
	return snap
}

// Resolve ends the loading phase without touching the identity. Used once
// hydration has found nothing to restore.
func (s *Store) Resolve() State {
	return s.Dispatch(resolved{})
}

// Snapshot returns a copy of the current state. Mutating it has no effect on
// the store.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}
