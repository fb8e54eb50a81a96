package vdom

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	rerrors "github.com/vango-dev/reflow/internal/errors"
	"github.com/vango-dev/reflow/pkg/host"
)

const tracerName = "github.com/vango-dev/reflow/pkg/vdom"

// Stats counts the structural work done by one Render or Patch call.
type Stats struct {
	Created  int // Host nodes created
	Moved    int // Existing host nodes repositioned
	Removed  int // Host nodes removed
	Replaced int // Nodes replaced because their tag changed
}

// Reconciler renders descriptors into a host tree and patches them.
// A Reconciler is not safe for concurrent use; it runs on the goroutine
// that owns the host tree.
type Reconciler struct {
	host   host.Host
	logger *slog.Logger
	tracer trace.Tracer
	stats  Stats
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = l
	}
}

// WithTracer sets the tracer used for patch spans.
// Default: the global OpenTelemetry tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(r *Reconciler) {
		r.tracer = t
	}
}

// NewReconciler creates a reconciler writing to h.
func NewReconciler(h host.Host, opts ...Option) *Reconciler {
	r := &Reconciler{host: h}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(tracerName)
	}
	return r
}

// Host returns the host the reconciler writes to.
func (r *Reconciler) Host() host.Host {
	return r.host
}

// LastStats returns the counters of the most recent Render or Patch call.
func (r *Reconciler) LastStats() Stats {
	return r.stats
}

// Render creates a fresh host node for v and its subtree. The node is not
// attached anywhere.
func (r *Reconciler) Render(v *VNode) (n host.Node, err error) {
	r.stats = Stats{}
	defer recoverCoded(&err)
	return r.render(v), nil
}

// Patch reconciles next against old and returns next's host node.
//
// When old is a live host node (first mount), next is rendered fresh,
// inserted right after old in old's parent and old is removed. When old is
// the descriptor from the previous render, the existing host nodes are
// reused and updated in place.
func (r *Reconciler) Patch(old any, next *VNode) (n host.Node, err error) {
	return r.PatchContext(context.Background(), old, next)
}

// PatchContext is like Patch with a parent context for the patch span.
func (r *Reconciler) PatchContext(ctx context.Context, old any, next *VNode) (n host.Node, err error) {
	r.stats = Stats{}
	mode := "update"
	if _, ok := old.(*VNode); !ok {
		mode = "mount"
	}
	_, span := r.tracer.Start(ctx, "reflow.patch",
		trace.WithAttributes(attribute.String("reflow.patch.mode", mode)))
	defer func() {
		span.SetAttributes(
			attribute.Int("reflow.patch.created", r.stats.Created),
			attribute.Int("reflow.patch.moved", r.stats.Moved),
			attribute.Int("reflow.patch.removed", r.stats.Removed),
		)
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()
	defer recoverCoded(&err)

	if next == nil {
		panic(rerrors.New("R002").WithDetail("Patch was called with a nil descriptor."))
	}

	switch o := old.(type) {
	case *VNode:
		if o == nil {
			panic(rerrors.New("R002").WithDetail("Patch was called with a nil previous descriptor."))
		}
		r.patch(o, next)
		return next.Host, nil
	case nil:
		panic(rerrors.New("R002").WithDetail("Patch was called without a mount point."))
	default:
		return r.mount(o, next), nil
	}
}

// mount renders next and substitutes it for the live node at.
func (r *Reconciler) mount(at host.Node, next *VNode) host.Node {
	parent := r.host.Parent(at)
	if parent == nil {
		panic(rerrors.New("R002").WithDetail("The mount point is detached; it has no parent to render into."))
	}
	n := r.render(next)
	r.host.InsertBefore(parent, n, r.host.NextSibling(at))
	r.host.Remove(at)
	r.stats.Removed++
	r.logger.Debug("mounted", "tag", next.Tag, "nodes", r.stats.Created)
	return n
}

func (r *Reconciler) render(v *VNode) host.Node {
	if v == nil {
		panic(rerrors.New("R002").WithDetail("A nil descriptor was found among the children being rendered."))
	}
	switch v.Kind {
	case KindText:
		v.Host = r.host.CreateText(v.Text)
	case KindElement:
		el := r.host.CreateElement(v.Tag)
		v.Host = el
		r.applyProps(el, nil, v.Props)
		for _, c := range v.Children {
			r.host.InsertBefore(el, r.render(c), nil)
		}
	default:
		panic(rerrors.New("R002").WithDetailf("Descriptor kind %v cannot be rendered.", v.Kind))
	}
	r.stats.Created++
	return v.Host
}

// patch updates old's host node to match next and stores it on next.
func (r *Reconciler) patch(old, next *VNode) {
	if old.Host == nil {
		panic(rerrors.New("R001").WithDetailf("The previous %s descriptor %s was never rendered.", old.Kind, describe(old)))
	}

	if old.Kind != next.Kind || old.Tag != next.Tag {
		r.replace(old, next)
		return
	}

	next.Host = old.Host
	if next.Kind == KindText {
		if old.Text != next.Text {
			r.host.SetText(next.Host, next.Text)
		}
		return
	}

	r.applyProps(next.Host, old.Props, next.Props)
	r.diffChildren(next.Host, old.Children, next.Children)
}

// replace renders next fresh and puts it where old's host node was.
func (r *Reconciler) replace(old, next *VNode) {
	n := r.render(next)
	if parent := r.host.Parent(old.Host); parent != nil {
		r.host.InsertBefore(parent, n, old.Host)
		r.host.Remove(old.Host)
		r.stats.Removed++
	}
	r.stats.Replaced++
	r.logger.Debug("replaced node", "old", describe(old), "new", describe(next))
}

// diffChildren reconciles the children of parent with a keyed two-ended
// walk. consumed marks old slots already moved by the key lookup.
func (r *Reconciler) diffChildren(parent host.Node, oldCh, newCh []*VNode) {
	switch {
	case len(oldCh) == 0 && len(newCh) == 0:
		return
	case len(oldCh) == 0:
		r.host.ClearChildren(parent)
		for _, c := range newCh {
			r.host.InsertBefore(parent, r.render(c), nil)
		}
		return
	case len(newCh) == 0:
		r.host.ClearChildren(parent)
		r.stats.Removed += len(oldCh)
		return
	}

	for _, c := range newCh {
		if c == nil {
			panic(rerrors.New("R002").WithDetail("A nil descriptor was found among the children being patched."))
		}
	}

	oldStart, oldEnd := 0, len(oldCh)-1
	newStart, newEnd := 0, len(newCh)-1
	consumed := make([]bool, len(oldCh))
	var keyIndex map[string]int

	for oldStart <= oldEnd && newStart <= newEnd {
		switch {
		case consumed[oldStart]:
			oldStart++

		case consumed[oldEnd]:
			oldEnd--

		case sameNode(oldCh[oldStart], newCh[newStart]):
			r.patch(oldCh[oldStart], newCh[newStart])
			oldStart++
			newStart++

		case sameNode(oldCh[oldEnd], newCh[newEnd]):
			r.patch(oldCh[oldEnd], newCh[newEnd])
			oldEnd--
			newEnd--

		case sameNode(oldCh[oldStart], newCh[newEnd]):
			// Moved toward the tail.
			r.patch(oldCh[oldStart], newCh[newEnd])
			r.move(parent, newCh[newEnd].Host, r.host.NextSibling(oldCh[oldEnd].Host))
			oldStart++
			newEnd--

		case sameNode(oldCh[oldEnd], newCh[newStart]):
			// Moved toward the head.
			r.patch(oldCh[oldEnd], newCh[newStart])
			r.move(parent, newCh[newStart].Host, oldCh[oldStart].Host)
			oldEnd--
			newStart++

		default:
			if keyIndex == nil {
				keyIndex = keyIndexOf(oldCh)
			}
			next := newCh[newStart]
			m, found := -1, false
			if next.Key != "" {
				m, found = keyIndex[next.Key]
			}
			if found && consumed[m] {
				found = false
			}

			if !found {
				r.host.InsertBefore(parent, r.render(next), oldCh[oldStart].Host)
			} else {
				ref := oldCh[oldStart].Host
				r.patch(oldCh[m], next)
				consumed[m] = true
				// When m is oldStart a tag change already put the
				// replacement in place.
				if m != oldStart {
					r.move(parent, next.Host, ref)
				}
			}
			newStart++
		}
	}

	if oldStart > oldEnd {
		var ref host.Node
		if newEnd+1 < len(newCh) {
			ref = newCh[newEnd+1].Host
		}
		for i := newStart; i <= newEnd; i++ {
			r.host.InsertBefore(parent, r.render(newCh[i]), ref)
		}
		return
	}

	for i := oldStart; i <= oldEnd; i++ {
		if !consumed[i] {
			r.host.Remove(oldCh[i].Host)
			r.stats.Removed++
		}
	}
}

func (r *Reconciler) move(parent, n, ref host.Node) {
	r.host.InsertBefore(parent, n, ref)
	r.stats.Moved++
}

// keyIndexOf maps the keys of keyed children to their index. Unkeyed
// children are not addressable.
func keyIndexOf(children []*VNode) map[string]int {
	idx := make(map[string]int, len(children))
	for i, c := range children {
		if c.Key != "" {
			idx[c.Key] = i
		}
	}
	return idx
}

func describe(v *VNode) string {
	switch {
	case v.Kind == KindText:
		return fmt.Sprintf("%q", v.Text)
	case v.Key != "":
		return fmt.Sprintf("<%s key=%q>", v.Tag, v.Key)
	default:
		return "<" + v.Tag + ">"
	}
}

// recoverCoded turns a panicking coded error back into a returned error.
// Any other panic is re-raised.
func recoverCoded(err *error) {
	rec := recover()
	if rec == nil {
		return
	}
	if e, ok := rec.(*rerrors.ReflowError); ok {
		*err = e
		return
	}
	panic(rec)
}
