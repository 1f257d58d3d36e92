package observe

import "sync"

type mapped[A, B any] struct {
	src Source[A]
	fn  func(A) B
}

// Map returns a Source applying fn to every value of src.
func Map[A, B any](src Source[A], fn func(A) B) Source[B] {
	return &mapped[A, B]{src: src, fn: fn}
}

func (m *mapped[A, B]) Value() B { return m.fn(m.src.Value()) }

func (m *mapped[A, B]) Subscribe(o Observer[B]) func() {
	return m.src.Subscribe(func(a A) { o(m.fn(a)) })
}

type combined[A, B, R any] struct {
	a  Source[A]
	b  Source[B]
	fn func(A, B) R
}

// Combine returns a Source of fn applied to the latest values of a and b.
// A subscriber is notified once both inputs delivered a value and then on
// every value of either input.
func Combine[A, B, R any](a Source[A], b Source[B], fn func(A, B) R) Source[R] {
	return &combined[A, B, R]{a: a, b: b, fn: fn}
}

func (c *combined[A, B, R]) Value() R { return c.fn(c.a.Value(), c.b.Value()) }

func (c *combined[A, B, R]) Subscribe(o Observer[R]) func() {
	var (
		mu         sync.Mutex
		lastA      A
		lastB      B
		hasA, hasB bool
	)
	detachA := c.a.Subscribe(func(v A) {
		mu.Lock()
		defer mu.Unlock()
		lastA, hasA = v, true
		if hasB {
			o(c.fn(lastA, lastB))
		}
	})
	detachB := c.b.Subscribe(func(v B) {
		mu.Lock()
		defer mu.Unlock()
		lastB, hasB = v, true
		if hasA {
			o(c.fn(lastA, lastB))
		}
	})
	return func() {
		detachA()
		detachB()
	}
}

// Shared caches the latest value of an upstream Source. The upstream is
// subscribed while at least one subscriber is attached; the cached value
// survives the last unsubscribe and is replayed to the next subscriber.
type Shared[T comparable] struct {
	upstream Source[T]
	state    *State[T]

	life        sync.Mutex
	subscribers int
	stop        func()
}

// StateIn shares upstream with initial as the value held before the first
// subscription.
func StateIn[T comparable](upstream Source[T], initial T) *Shared[T] {
	return &Shared[T]{upstream: upstream, state: NewState(initial)}
}

// Value returns the cached value. It does not start the upstream.
func (s *Shared[T]) Value() T { return s.state.Value() }

func (s *Shared[T]) Subscribe(o Observer[T]) func() {
	s.life.Lock()
	defer s.life.Unlock()

	detach := s.state.Subscribe(o)
	s.subscribers++
	if s.subscribers == 1 {
		s.stop = s.upstream.Subscribe(s.state.Set)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.life.Lock()
			defer s.life.Unlock()

			detach()
			s.subscribers--
			if s.subscribers == 0 && s.stop != nil {
				s.stop()
				s.stop = nil
			}
		})
	}
}

// Active reports whether the upstream is currently subscribed.
func (s *Shared[T]) Active() bool {
	s.life.Lock()
	defer s.life.Unlock()
	return s.stop != nil
}

// Distinct wraps o so that a value equal to the previously delivered one is
// dropped. The returned observer is safe for concurrent use.
func Distinct[T comparable](o Observer[T]) Observer[T] {
	var (
		mu   sync.Mutex
		last T
		has  bool
	)
	return func(v T) {
		mu.Lock()
		if has && last == v {
			mu.Unlock()
			return
		}
		last, has = v, true
		mu.Unlock()
		o(v)
	}
}

// Filter wraps o so that only values matching keep are delivered.
func Filter[T any](keep func(T) bool, o Observer[T]) Observer[T] {
	return func(v T) {
		if keep(v) {
			o(v)
		}
	}
}
