// Package demo holds the sample components driven by the reflow CLI.
package demo

import (
	"sort"

	"github.com/vango-dev/reflow/pkg/component"
	"github.com/vango-dev/reflow/pkg/reactive"
	"github.com/vango-dev/reflow/pkg/vdom"
)

// Step is one scripted state change. Each step ends a turn, so its writes
// are flushed as one batch.
type Step struct {
	Name  string
	Apply func(inst *component.Instance)
}

// Demo is a named component with initial data and a script.
type Demo struct {
	Name        string
	Description string
	Render      component.RenderFunc

	// Data returns a fresh copy of the initial state.
	Data  func() map[string]any
	Steps []Step
}

var demos = map[string]Demo{}

func register(d Demo) {
	demos[d.Name] = d
}

// Lookup returns the demo with the given name.
func Lookup(name string) (Demo, bool) {
	d, ok := demos[name]
	return d, ok
}

// All returns every demo sorted by name.
func All() []Demo {
	out := make([]Demo, 0, len(demos))
	for _, d := range demos {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the demo names in sorted order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	return names
}

func init() {
	register(Demo{
		Name:        "counter",
		Description: "a counter whose text node is patched in place",
		Render:      Counter,
		Data: func() map[string]any {
			return map[string]any{"count": 0, "step": 1}
		},
		Steps: []Step{
			{Name: "increment", Apply: increment},
			{Name: "increment twice in one turn", Apply: func(inst *component.Instance) {
				increment(inst)
				increment(inst)
			}},
			{Name: "step 10", Apply: func(inst *component.Instance) {
				inst.Set("step", 10)
				increment(inst)
			}},
		},
	})

	register(Demo{
		Name:        "todos",
		Description: "a keyed list reordered without recreating items",
		Render:      Todos,
		Data: func() map[string]any {
			return map[string]any{
				"title": "Todos",
				"items": []any{
					map[string]any{"id": 1, "text": "write the reconciler", "done": true},
					map[string]any{"id": 2, "text": "write the scheduler", "done": false},
					map[string]any{"id": 3, "text": "ship it", "done": false},
				},
			}
		},
		Steps: []Step{
			{Name: "complete #2", Apply: func(inst *component.Instance) {
				inst.Data().Array("items").Get(1).(*reactive.Object).Set("done", true)
			}},
			{Name: "move last to front", Apply: func(inst *component.Instance) {
				items := inst.Data().Array("items")
				last := items.Pop()
				items.Unshift(last)
			}},
			{Name: "add #4", Apply: func(inst *component.Instance) {
				inst.Data().Array("items").Push(map[string]any{"id": 4, "text": "celebrate", "done": false})
			}},
			{Name: "remove first", Apply: func(inst *component.Instance) {
				inst.Data().Array("items").Shift()
			}},
			{Name: "reverse", Apply: func(inst *component.Instance) {
				inst.Data().Array("items").Reverse()
			}},
		},
	})

	register(Demo{
		Name:        "profile",
		Description: "interpolated values, nested objects and conditional nodes",
		Render:      Profile,
		Data: func() map[string]any {
			return map[string]any{
				"user": map[string]any{
					"name": "Ada",
					"tags": []any{"math", "engines"},
				},
				"admin": false,
				"note":  nil,
			}
		},
		Steps: []Step{
			{Name: "rename", Apply: func(inst *component.Instance) {
				inst.Data().Object("user").Set("name", "Ada Lovelace")
			}},
			{Name: "add tag", Apply: func(inst *component.Instance) {
				inst.Data().Object("user").Array("tags").Push("poetry")
			}},
			{Name: "grant admin", Apply: func(inst *component.Instance) {
				inst.Set("admin", true)
				inst.Set("note", "promoted")
			}},
		},
	})
}

func increment(inst *component.Instance) {
	count, _ := inst.Get("count").(int)
	step, _ := inst.Get("step").(int)
	inst.Set("count", count+step)
}

// Counter renders the counter demo.
func Counter(inst *component.Instance) *vdom.VNode {
	return vdom.Div(vdom.ID("counter"), vdom.Class("counter"),
		vdom.H1(vdom.TextOf(inst.Get("count"))),
		vdom.Button(vdom.Type("button"), vdom.Textf("+%v", inst.Get("step"))),
	)
}

// Todos renders the keyed list demo.
func Todos(inst *component.Instance) *vdom.VNode {
	var items []*vdom.VNode
	if arr := inst.Data().Array("items"); arr != nil {
		items = vdom.Range(arr.Items(), func(item any, _ int) *vdom.VNode {
			todo, ok := item.(*reactive.Object)
			if !ok {
				return nil
			}
			done := todo.Get("done") == true
			return vdom.Li(
				vdom.Key(todo.Get("id")),
				vdom.ClassMap(map[string]bool{"todo": true, "done": done}),
				vdom.TextOf(todo.Get("text")),
			)
		})
	}
	return vdom.Section(vdom.ID("todos"),
		vdom.H2(vdom.TextOf(inst.Get("title"))),
		vdom.Ul(items),
	)
}

// Profile renders the interpolation demo.
func Profile(inst *component.Instance) *vdom.VNode {
	user := inst.Data().Object("user")
	var name, tags any
	if user != nil {
		name = user.Get("name")
		tags = user.Get("tags")
	}
	admin := inst.Get("admin") == true
	return vdom.Div(vdom.ID("profile"),
		vdom.H2(vdom.TextOf(name)),
		vdom.P(vdom.Class("tags"), vdom.TextOf(tags)),
		vdom.If(admin, vdom.Span(vdom.Class("badge"), vdom.Text("admin"))),
		vdom.P(vdom.Class("note"), vdom.TextOf(inst.Get("note"))),
	)
}
