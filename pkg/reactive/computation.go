package reactive

// Computation is a re-runnable unit of work. Every run re-registers the
// subscriptions its job reads. By default registration is additive: a
// computation that stops reading a property keeps receiving its
// notifications. WithFreshDeps switches a computation to clear-then-rebuild.
type Computation struct {
	id   uint64
	rt   *Runtime
	job  func()
	name string

	scheduled bool
	fresh     bool

	joined    []*Subscription
	joinedIDs map[uint64]struct{}

	runs int
}

// ComputationOption configures a Computation.
type ComputationOption func(*Computation)

// Scheduled makes notifications enqueue the computation on the runtime's
// scheduler instead of re-running it synchronously. Render computations use
// this mode.
func Scheduled() ComputationOption {
	return func(c *Computation) {
		c.scheduled = true
	}
}

// WithFreshDeps makes the computation leave every subscription it joined
// before each run, so dependencies it stops reading no longer notify it.
func WithFreshDeps() ComputationOption {
	return func(c *Computation) {
		c.fresh = true
	}
}

// Named sets a name used in logs and traces.
func Named(name string) ComputationOption {
	return func(c *Computation) {
		c.name = name
	}
}

// NewComputation creates a computation for job and runs it once,
// synchronously, before returning.
func (r *Runtime) NewComputation(job func(), opts ...ComputationOption) *Computation {
	c := &Computation{
		id:    r.newComputationID(),
		rt:    r,
		job:   job,
		fresh: r.freshDeps,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Run()
	return c
}

// ID returns the computation's monotonic identifier.
func (c *Computation) ID() uint64 {
	return c.id
}

// Name returns the name set with Named.
func (c *Computation) Name() string {
	return c.name
}

// Runs returns how many times the job has executed.
func (c *Computation) Runs() int {
	return c.runs
}

// Joined returns a copy of the subscriptions the computation belongs to.
func (c *Computation) Joined() []*Subscription {
	out := make([]*Subscription, len(c.joined))
	copy(out, c.joined)
	return out
}

// Run executes the job with the computation on top of the active stack.
// The stack is popped even if the job panics.
func (c *Computation) Run() {
	c.rt.check()
	if c.fresh {
		c.leaveAll()
	}

	c.rt.stack.push(c)
	defer c.rt.stack.pop()

	c.runs++
	c.job()
}

// Update is the notification entry point called by a Subscription.
func (c *Computation) Update() {
	if c.scheduled {
		c.rt.scheduler.Enqueue(c)
		return
	}
	c.Run()
}

func (c *Computation) addDep(s *Subscription) {
	if c.joinedIDs == nil {
		c.joinedIDs = make(map[uint64]struct{})
	}
	if _, ok := c.joinedIDs[s.id]; ok {
		return
	}
	c.joinedIDs[s.id] = struct{}{}
	c.joined = append(c.joined, s)
	s.addSub(c)
}

func (c *Computation) leaveAll() {
	for _, s := range c.joined {
		s.removeSub(c)
	}
	c.joined = c.joined[:0]
	clear(c.joinedIDs)
}
