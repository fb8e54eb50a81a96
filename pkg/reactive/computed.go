package reactive

// Computed is a cached derived value. It recomputes synchronously whenever
// one of its dependencies notifies it, and notifies its own readers only when
// the result changed.
type Computed[T any] struct {
	rt    *Runtime
	c     *Computation
	sub   *Subscription
	fn    func() T
	value T
	ready bool
}

// NewComputed creates a Computed and evaluates fn once.
func NewComputed[T any](rt *Runtime, fn func() T, opts ...ComputationOption) *Computed[T] {
	m := &Computed[T]{
		rt:  rt,
		sub: rt.NewSubscription(),
		fn:  fn,
	}
	m.c = rt.NewComputation(m.recompute, opts...)
	return m
}

// Get returns the cached value and registers the active computation as a
// reader.
func (m *Computed[T]) Get() T {
	m.sub.Depend(m.rt.Active())
	return m.value
}

// Peek returns the cached value without registering a dependency.
func (m *Computed[T]) Peek() T {
	return m.value
}

// Computation returns the computation that evaluates the value.
func (m *Computed[T]) Computation() *Computation {
	return m.c
}

func (m *Computed[T]) recompute() {
	next := m.fn()
	if m.ready && identical(any(m.value), any(next)) {
		return
	}
	first := !m.ready
	m.value = next
	m.ready = true
	if !first {
		m.sub.Notify()
	}
}
