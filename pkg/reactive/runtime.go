package reactive

import (
	"log/slog"

	"github.com/petermattis/goid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	rerrors "github.com/vango-dev/reflow/internal/errors"
)

const tracerName = "github.com/vango-dev/reflow/pkg/reactive"

// Runtime owns the active-computation stack, the ID counters and the
// scheduler shared by every computation and observed container created
// through it.
type Runtime struct {
	stack     stack
	scheduler *Scheduler

	nextComputationID  uint64
	nextSubscriptionID uint64

	// owner is the goroutine the runtime is bound to. Zero means unbound.
	owner int64

	freshDeps bool
	logger    *slog.Logger
}

// Option configures a Runtime.
type Option func(*runtimeConfig)

type runtimeConfig struct {
	deferrer  Deferrer
	logger    *slog.Logger
	tracer    trace.Tracer
	freshDeps bool
	chainWarn int
}

// WithDeferrer sets the deferred-callback primitive used to arm flushes.
// Default: a fresh ManualQueue, which only runs when drained.
func WithDeferrer(d Deferrer) Option {
	return func(c *runtimeConfig) {
		c.deferrer = d
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *runtimeConfig) {
		c.logger = l
	}
}

// WithTracer sets the tracer used for flush spans.
// Default: the global OpenTelemetry tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *runtimeConfig) {
		c.tracer = t
	}
}

// WithFreshDepsByDefault makes every computation created by the runtime
// drop its subscriptions before each run, as if created WithFreshDeps.
func WithFreshDepsByDefault(enabled bool) Option {
	return func(c *runtimeConfig) {
		c.freshDeps = enabled
	}
}

// WithChainWarning logs a warning once a chain of flushes, each armed from
// inside the previous one, reaches n. It never stops the chain.
// Zero disables the warning.
func WithChainWarning(n int) Option {
	return func(c *runtimeConfig) {
		c.chainWarn = n
	}
}

// New creates a Runtime.
func New(opts ...Option) *Runtime {
	cfg := runtimeConfig{
		chainWarn: 100,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.deferrer == nil {
		cfg.deferrer = NewManualQueue()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer(tracerName)
	}

	r := &Runtime{
		freshDeps: cfg.freshDeps,
		logger:    cfg.logger,
	}
	r.scheduler = newScheduler(r, cfg.deferrer, cfg.tracer, cfg.chainWarn)
	return r
}

// Scheduler returns the runtime's scheduler.
func (r *Runtime) Scheduler() *Scheduler {
	return r.scheduler
}

// Logger returns the runtime's logger.
func (r *Runtime) Logger() *slog.Logger {
	return r.logger
}

// Active returns the computation currently collecting dependencies, or nil.
func (r *Runtime) Active() *Computation {
	return r.stack.top()
}

// Depth returns the number of entries on the active-computation stack.
func (r *Runtime) Depth() int {
	return r.stack.depth()
}

// Untracked runs fn with dependency collection suspended.
func (r *Runtime) Untracked(fn func()) {
	r.check()
	r.stack.push(nil)
	defer r.stack.pop()
	fn()
}

// NextTick registers fn to run in the next deferred turn, after any flush
// already armed for the current batch.
func (r *Runtime) NextTick(fn func()) {
	r.scheduler.NextTick(fn)
}

// Bind ties the runtime to the calling goroutine. Afterwards every tracked
// read, write or run from another goroutine panics with ErrForeignGoroutine.
func (r *Runtime) Bind() {
	r.owner = goid.Get()
}

// Unbind releases the goroutine binding.
func (r *Runtime) Unbind() {
	r.owner = 0
}

func (r *Runtime) check() {
	if r.owner == 0 {
		return
	}
	if gid := goid.Get(); gid != r.owner {
		panic(rerrors.New("R003").WithDetailf("runtime bound to goroutine %d, used from goroutine %d", r.owner, gid))
	}
}

func (r *Runtime) newComputationID() uint64 {
	r.nextComputationID++
	return r.nextComputationID
}

// NewSubscription creates an empty Subscription owned by the runtime.
func (r *Runtime) NewSubscription() *Subscription {
	r.nextSubscriptionID++
	return &Subscription{id: r.nextSubscriptionID}
}
