package viewmodel

import "sync"

// State is a replay-latest value shared between subscribers. A new subscriber
// immediately receives the current value, then every later one. Slow readers
// only ever see the newest value; intermediate values are dropped.
type State[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[int]chan T
	next  int
}

func NewState[T any](initial T) *State[T] {
	return &State[T]{value: initial, subs: make(map[int]chan T)}
}

func (s *State[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *State[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	for _, ch := range s.subs {
		replace(ch, v)
	}
}

// Subscribe returns a channel primed with the current value and a func that
// unsubscribes and closes it.
func (s *State[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan T, 1)
	ch <- s.value
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
	}
}

// closeAll ends every subscription
func (s *State[T]) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

// replace swaps any pending value for v. Callers hold the state lock, so
// this is the only sender and the send cannot block.
func replace[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
