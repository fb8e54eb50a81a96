package component

import (
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"

	rerrors "github.com/vango-dev/reflow/internal/errors"
	"github.com/vango-dev/reflow/pkg/host"
	"github.com/vango-dev/reflow/pkg/reactive"
	"github.com/vango-dev/reflow/pkg/vdom"
)

// Component is anything that can render a descriptor tree for an instance.
type Component interface {
	// Render returns the root descriptor. It runs inside the render
	// computation, so every observed read registers a dependency.
	Render(inst *Instance) *vdom.VNode
}

// RenderFunc wraps a render function as a Component.
type RenderFunc func(inst *Instance) *vdom.VNode

// Render calls the wrapped function.
func (f RenderFunc) Render(inst *Instance) *vdom.VNode {
	return f(inst)
}

// ErrAlreadyMounted is returned by Mount on an instance that is mounted.
var ErrAlreadyMounted = rerrors.Newf(rerrors.CategoryReactive, "component: already mounted")

// instanceIDCounter is used to generate unique instance IDs.
var instanceIDCounter atomic.Uint64

// Instance is a mounted component with its observed data.
type Instance struct {
	id         uint64
	name       string
	rt         *reactive.Runtime
	comp       Component
	data       *reactive.Object
	reconciler *vdom.Reconciler
	logger     *slog.Logger
	fresh      bool

	render  *reactive.Computation
	el      host.Node   // mount point, replaced by the first patch
	root    host.Node   // current root host node
	tree    *vdom.VNode // last patched descriptor tree
	err     error
	renders int

	afterPatch []func(*Instance)
}

// Option configures an Instance.
type Option func(*instanceConfig)

type instanceConfig struct {
	data       map[string]any
	name       string
	logger     *slog.Logger
	tracer     trace.Tracer
	fresh      bool
	afterPatch []func(*Instance)
}

// WithData sets the initial state. The map is copied into an observed
// object; later writes to the original map are not seen.
func WithData(data map[string]any) Option {
	return func(c *instanceConfig) {
		c.data = data
	}
}

// WithName names the instance in logs and on its render computation.
func WithName(name string) Option {
	return func(c *instanceConfig) {
		c.name = name
	}
}

// WithLogger sets the logger. Default: the runtime's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *instanceConfig) {
		c.logger = l
	}
}

// WithTracer sets the tracer used for patch spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *instanceConfig) {
		c.tracer = t
	}
}

// WithFreshDeps makes the render computation drop its dependencies before
// every render.
func WithFreshDeps() Option {
	return func(c *instanceConfig) {
		c.fresh = true
	}
}

// AfterPatch registers fn to run after every patch attempt. fn can check
// Err to tell a failed patch from a successful one.
func AfterPatch(fn func(*Instance)) Option {
	return func(c *instanceConfig) {
		c.afterPatch = append(c.afterPatch, fn)
	}
}

// New creates an unmounted instance rendering comp into h.
func New(rt *reactive.Runtime, h host.Host, comp Component, opts ...Option) *Instance {
	cfg := instanceConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.data == nil {
		cfg.data = map[string]any{}
	}
	if cfg.logger == nil {
		cfg.logger = rt.Logger()
	}

	id := instanceIDCounter.Add(1)
	if cfg.name == "" {
		cfg.name = "component"
	}

	var ropts []vdom.Option
	ropts = append(ropts, vdom.WithLogger(cfg.logger))
	if cfg.tracer != nil {
		ropts = append(ropts, vdom.WithTracer(cfg.tracer))
	}

	return &Instance{
		id:         id,
		name:       cfg.name,
		rt:         rt,
		comp:       comp,
		data:       rt.Wrap(cfg.data).(*reactive.Object),
		reconciler: vdom.NewReconciler(h, ropts...),
		logger:     cfg.logger.With("component", cfg.name, "instance", id),
		fresh:      cfg.fresh,
		afterPatch: cfg.afterPatch,
	}
}

// ID returns the instance's unique identifier.
func (i *Instance) ID() uint64 {
	return i.id
}

// Name returns the instance name.
func (i *Instance) Name() string {
	return i.name
}

// Runtime returns the runtime the instance belongs to.
func (i *Instance) Runtime() *reactive.Runtime {
	return i.rt
}

// Data returns the observed root data object.
func (i *Instance) Data() *reactive.Object {
	return i.data
}

// Get reads a data property, registering a dependency when called from a
// render.
func (i *Instance) Get(key string) any {
	return i.data.Get(key)
}

// Set writes a data property.
func (i *Instance) Set(key string, v any) {
	i.data.Set(key, v)
}

// NextTick runs fn after the pending re-render, if any, has been patched.
func (i *Instance) NextTick(fn func()) {
	i.rt.NextTick(fn)
}

// Mount renders the component over el. el is replaced in its parent by the
// rendered root. The first render runs synchronously; its patch error, if
// any, is returned.
func (i *Instance) Mount(el host.Node) error {
	if i.render != nil {
		return ErrAlreadyMounted
	}
	i.el = el

	opts := []reactive.ComputationOption{
		reactive.Scheduled(),
		reactive.Named(i.name),
	}
	if i.fresh {
		opts = append(opts, reactive.WithFreshDeps())
	}
	i.render = i.rt.NewComputation(i.update, opts...)
	i.logger.Debug("component mounted", "computation", i.render.ID())
	return i.err
}

// update is the render computation's job: render, then patch against the
// previous tree or, the first time, the mount point.
func (i *Instance) update() {
	i.renders++
	next := i.comp.Render(i)

	var target any = i.el
	if i.tree != nil {
		target = i.tree
	}

	defer func() {
		for _, fn := range i.afterPatch {
			fn(i)
		}
	}()

	root, err := i.reconciler.Patch(target, next)
	i.err = err
	if err != nil {
		i.logger.Error("patch failed", "error", err)
		return
	}

	i.tree = next
	i.root = root
	stats := i.reconciler.LastStats()
	i.logger.Debug("component patched",
		"render", i.renders,
		"created", stats.Created,
		"moved", stats.Moved,
		"removed", stats.Removed,
	)
}

// Mounted reports whether Mount has been called.
func (i *Instance) Mounted() bool {
	return i.render != nil
}

// Root returns the current root host node, or nil before the first
// successful patch.
func (i *Instance) Root() host.Node {
	return i.root
}

// Tree returns the last patched descriptor tree.
func (i *Instance) Tree() *vdom.VNode {
	return i.tree
}

// Err returns the error of the most recent patch.
func (i *Instance) Err() error {
	return i.err
}

// Renders returns how many times the component has rendered.
func (i *Instance) Renders() int {
	return i.renders
}

// Computation returns the render computation, or nil before Mount.
func (i *Instance) Computation() *reactive.Computation {
	return i.render
}

// Stats returns the reconciler counters of the most recent patch.
func (i *Instance) Stats() vdom.Stats {
	return i.reconciler.LastStats()
}
