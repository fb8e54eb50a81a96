package reactive

// Subscription is the set of computations interested in one observed
// property or container. Members are kept in subscribe order and never
// appear twice.
type Subscription struct {
	id      uint64
	subs    []*Computation
	members map[uint64]struct{}
}

// ID returns the subscription's identifier, unique within its runtime.
func (s *Subscription) ID() uint64 {
	return s.id
}

// Depend registers c with this subscription and records the subscription in
// c's joined set. A nil c is ignored.
func (s *Subscription) Depend(c *Computation) {
	if c == nil {
		return
	}
	c.addDep(s)
}

// Notify calls Update on every registered computation in registration order.
// Computations that subscribe during notification are not visited.
func (s *Subscription) Notify() {
	if len(s.subs) == 0 {
		return
	}
	subs := make([]*Computation, len(s.subs))
	copy(subs, s.subs)
	for _, c := range subs {
		c.Update()
	}
}

// Subscribers returns a copy of the registered computations.
func (s *Subscription) Subscribers() []*Computation {
	out := make([]*Computation, len(s.subs))
	copy(out, s.subs)
	return out
}

// Len returns the number of registered computations.
func (s *Subscription) Len() int {
	return len(s.subs)
}

func (s *Subscription) addSub(c *Computation) {
	if s.members == nil {
		s.members = make(map[uint64]struct{})
	}
	if _, ok := s.members[c.id]; ok {
		return
	}
	s.members[c.id] = struct{}{}
	s.subs = append(s.subs, c)
}

func (s *Subscription) removeSub(c *Computation) {
	if _, ok := s.members[c.id]; !ok {
		return
	}
	delete(s.members, c.id)
	for i, existing := range s.subs {
		if existing == c {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}
