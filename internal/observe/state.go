// Package observe provides latest-value state holders and the operators
// used to derive view state from several asynchronous sources.
package observe

import (
	"slices"
	"sync"
)

// Observer is a function that receives values of type T.
type Observer[T any] func(T)

// Source is a stream of values that always has a current value.
type Source[T any] interface {
	// Value returns the latest value without blocking.
	Value() T
	// Subscribe attaches o. Implementations deliver the current value
	// before returning when they have one.
	Subscribe(o Observer[T]) (detach func())
}

type subscription[T any] struct {
	observer Observer[T]
}

// State is a mutable Source. Subscribers receive the current value on
// subscription and every distinct value after it, in order.
//
// Observers must not call Set on the State that is notifying them.
type State[T comparable] struct {
	deliver sync.Mutex // serializes notifications
	mu      sync.RWMutex
	value   T
	subs    []*subscription[T]
}

// NewState creates a State holding initial.
func NewState[T comparable](initial T) *State[T] {
	return &State[T]{value: initial}
}

func (s *State[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores v and notifies subscribers unless v equals the current value.
func (s *State[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Update applies fn to the current value and stores the result.
func (s *State[T]) Update(fn func(T) T) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	v := fn(s.value)
	if s.value == v {
		s.mu.Unlock()
		return
	}
	s.value = v
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.observer(v)
	}
}

func (s *State[T]) Subscribe(o Observer[T]) func() {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	sub := &subscription[T]{observer: o}
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	v := s.value
	s.mu.Unlock()

	o(v)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(x *subscription[T]) bool { return x == sub })
		})
	}
}

// Subscribers returns the number of attached observers.
func (s *State[T]) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
