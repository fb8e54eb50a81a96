package demo

import (
	"github.com/vango-dev/reflow/pkg/component"
	"github.com/vango-dev/reflow/pkg/host"
	"github.com/vango-dev/reflow/pkg/host/memhost"
	"github.com/vango-dev/reflow/pkg/reactive"
	"github.com/vango-dev/reflow/pkg/vdom"
)

// Frame is the rendered state after one turn.
type Frame struct {
	Step  string       `json:"step"`
	HTML  string       `json:"html"`
	Ops   []memhost.Op `json:"ops"`
	Stats vdom.Stats   `json:"stats"`
}

// Player runs demos on a fresh memhost document with a manual clock.
type Player struct {
	// Runtime options. The deferrer is always the player's queue.
	Runtime []reactive.Option

	// Component options applied to the demo instance.
	Component []component.Option

	// Wrap decorates the document before the instance sees it.
	Wrap func(host.Host) host.Host

	// OnFrame, if set, is called after the mount and after every step,
	// before the op log is reset.
	OnFrame func(Frame, *Session)
}

// Session is a finished run.
type Session struct {
	Doc    *memhost.Document
	Inst   *component.Instance
	Frames []Frame
}

// Play mounts d and applies its steps, draining the queue after each one.
// The document's op log is reset after every frame.
func (p Player) Play(d Demo) (*Session, error) {
	q := reactive.NewManualQueue()
	ropts := append([]reactive.Option{}, p.Runtime...)
	rt := reactive.New(append(ropts, reactive.WithDeferrer(q))...)

	doc := memhost.New()
	var h host.Host = doc
	if p.Wrap != nil {
		h = p.Wrap(doc)
	}

	opts := append([]component.Option{
		component.WithData(d.Data()),
		component.WithName(d.Name),
	}, p.Component...)
	inst := component.New(rt, h, d.Render, opts...)

	s := &Session{Doc: doc, Inst: inst}
	if err := inst.Mount(doc.Element(doc.Body(), "div")); err != nil {
		return s, err
	}
	q.Drain()
	p.frame(s, "mount")

	for _, step := range d.Steps {
		step.Apply(inst)
		q.Drain()
		if err := inst.Err(); err != nil {
			return s, err
		}
		p.frame(s, step.Name)
	}
	return s, nil
}

func (p Player) frame(s *Session, step string) {
	f := Frame{Step: step, Ops: s.Doc.Ops(), Stats: s.Inst.Stats()}
	if root, ok := s.Inst.Root().(*memhost.Node); ok {
		f.HTML = root.HTML()
	}
	if p.OnFrame != nil {
		p.OnFrame(f, s)
	}
	s.Doc.ResetOps()
	s.Frames = append(s.Frames, f)
}
