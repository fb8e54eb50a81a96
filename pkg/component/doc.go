// Package component ties the reactive runtime to the reconciler.
//
// An Instance owns an observed data object and a render computation in
// scheduled mode. Mounting runs the render once synchronously and patches
// the result over a live host node; afterwards every write to data the
// render read enqueues the computation, and the next flush re-renders and
// patches against the previous descriptor tree.
//
//	inst := component.New(rt, doc, component.RenderFunc(func(c *component.Instance) *vdom.VNode {
//	    return vdom.Div(vdom.ID("app"), vdom.Textf("a%v", c.Get("x")))
//	}), component.WithData(map[string]any{"x": 1}))
//	inst.Mount(el)
//	inst.Set("x", 2) // re-rendered on the next flush
package component
