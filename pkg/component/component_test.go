package component

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/reflow/pkg/host/memhost"
	"github.com/vango-dev/reflow/pkg/reactive"
	"github.com/vango-dev/reflow/pkg/vdom"
)

func setup(t *testing.T, comp Component, data map[string]any) (*memhost.Document, *reactive.ManualQueue, *Instance) {
	t.Helper()
	q := reactive.NewManualQueue()
	rt := reactive.New(reactive.WithDeferrer(q))
	d := memhost.New()
	el := d.Element(d.Body(), "div")

	inst := New(rt, d, comp, WithData(data))
	require.NoError(t, inst.Mount(el))
	return d, q, inst
}

// interpolated renders <div id="app">a{{x}}</div>.
var interpolated = RenderFunc(func(c *Instance) *vdom.VNode {
	return vdom.Div(vdom.ID("app"), vdom.Text("a"+vdom.Stringify(c.Get("x"))))
})

func TestMountAndUpdateKeepsTextNode(t *testing.T) {
	d, q, inst := setup(t, interpolated, map[string]any{"x": 1})

	root := d.Body().Child(0)
	require.NotNil(t, root)
	text := root.Child(0)
	assert.Equal(t, `<div id="app">a1</div>`, root.HTML())
	assert.Equal(t, root, inst.Root())

	inst.Set("x", 2)
	assert.Equal(t, "a1", text.Text, "render is deferred until the flush")

	q.Drain()
	assert.Equal(t, "a2", text.Text)
	assert.Same(t, text, d.Body().Child(0).Child(0))
	assert.Equal(t, 2, inst.Renders())
}

func TestWritesInOneTurnRenderOnce(t *testing.T) {
	_, q, inst := setup(t, interpolated, map[string]any{"x": 1})

	inst.Set("x", 2)
	inst.Set("x", 3)
	inst.Set("x", 4)
	q.Drain()

	assert.Equal(t, 2, inst.Renders())
	assert.Equal(t, "a4", inst.Tree().Children[0].Text)
}

func TestSameValueDoesNotRender(t *testing.T) {
	_, q, inst := setup(t, interpolated, map[string]any{"x": 1})

	inst.Set("x", 1)
	assert.Equal(t, 0, q.Len())
	q.Drain()
	assert.Equal(t, 1, inst.Renders())
}

func TestUnreadPropertyDoesNotRender(t *testing.T) {
	_, q, inst := setup(t, interpolated, map[string]any{"x": 1, "y": 1})

	inst.Set("y", 2)
	q.Drain()
	assert.Equal(t, 1, inst.Renders())
}

func TestNextTickSeesPatchedTree(t *testing.T) {
	d, q, inst := setup(t, interpolated, map[string]any{"x": 1})

	var seen string
	inst.Set("x", 5)
	inst.NextTick(func() {
		seen = d.Body().Child(0).TextContent()
	})
	q.Drain()
	assert.Equal(t, "a5", seen)
}

func TestKeyedListComponent(t *testing.T) {
	list := RenderFunc(func(c *Instance) *vdom.VNode {
		items := c.Data().Array("items")
		return vdom.Ul(vdom.Range(items.Items(), func(it any, _ int) *vdom.VNode {
			s := vdom.Stringify(it)
			return vdom.Li(vdom.Key(s), vdom.Text(s))
		}))
	})
	d, q, inst := setup(t, list, map[string]any{"items": []any{"a", "b", "c", "d"}})

	ul := d.Body().Child(0)
	before := ul.Children()

	items := inst.Data().Array("items")
	items.Unshift(items.Pop())
	q.Drain()

	assert.Equal(t, "dabc", ul.TextContent())
	after := ul.Children()
	require.Len(t, after, 4)
	assert.Same(t, before[3], after[0])
	assert.Same(t, before[0], after[1])
	assert.Zero(t, inst.Stats().Created)
}

func TestComputedInsideRender(t *testing.T) {
	q := reactive.NewManualQueue()
	rt := reactive.New(reactive.WithDeferrer(q))
	d := memhost.New()
	el := d.Element(d.Body(), "div")

	var double *reactive.Computed[int]
	inst := New(rt, d, RenderFunc(func(c *Instance) *vdom.VNode {
		return vdom.P(vdom.TextOf(double.Get()))
	}), WithData(map[string]any{"n": 2}))
	double = reactive.NewComputed(rt, func() int {
		n, _ := inst.Get("n").(int)
		return n * 2
	})

	require.NoError(t, inst.Mount(el))
	assert.Equal(t, "4", d.Body().Child(0).TextContent())

	inst.Set("n", 5)
	q.Drain()
	assert.Equal(t, "10", d.Body().Child(0).TextContent())
	assert.Equal(t, 2, inst.Renders())
}

func TestMountTwice(t *testing.T) {
	d, _, inst := setup(t, interpolated, map[string]any{"x": 1})

	err := inst.Mount(d.Body())
	assert.True(t, errors.Is(err, ErrAlreadyMounted))
}

func TestPatchErrorIsReported(t *testing.T) {
	q := reactive.NewManualQueue()
	rt := reactive.New(reactive.WithDeferrer(q))
	d := memhost.New()
	el := d.Element(d.Body(), "div")

	var failed []bool
	inst := New(rt, d, RenderFunc(func(c *Instance) *vdom.VNode {
		if c.Get("broken") == true {
			return nil
		}
		return vdom.Div()
	}), WithData(map[string]any{"broken": false}), AfterPatch(func(c *Instance) {
		failed = append(failed, c.Err() != nil)
	}))
	require.NoError(t, inst.Mount(el))

	inst.Set("broken", true)
	q.Drain()
	assert.True(t, errors.Is(inst.Err(), vdom.ErrInvalidTarget))

	inst.Set("broken", false)
	q.Drain()
	assert.NoError(t, inst.Err())
	assert.Same(t, d.Body().Child(0), inst.Root())
	assert.Equal(t, []bool{false, true, false}, failed)
}

func TestAfterPatchHook(t *testing.T) {
	q := reactive.NewManualQueue()
	rt := reactive.New(reactive.WithDeferrer(q))
	d := memhost.New()
	el := d.Element(d.Body(), "div")

	var html []string
	inst := New(rt, d, interpolated,
		WithData(map[string]any{"x": 1}),
		WithName("counter"),
		AfterPatch(func(c *Instance) {
			html = append(html, c.Root().(*memhost.Node).HTML())
		}),
	)
	require.NoError(t, inst.Mount(el))
	inst.Set("x", 2)
	q.Drain()

	assert.Equal(t, []string{`<div id="app">a1</div>`, `<div id="app">a2</div>`}, html)
	assert.Equal(t, "counter", inst.Name())
	assert.Equal(t, "counter", inst.Computation().Name())
}
