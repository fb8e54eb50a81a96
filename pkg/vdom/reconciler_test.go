package vdom

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/reflow/pkg/host/memhost"
)

// mount renders v into a fresh document body and clears the op log.
func mount(t *testing.T, v *VNode) (*memhost.Document, *Reconciler) {
	t.Helper()
	d := memhost.New()
	r := NewReconciler(d)
	n, err := r.Render(v)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	d.InsertBefore(d.Body(), n, nil)
	d.ResetOps()
	return d, r
}

func keyedList(keys ...string) *VNode {
	return Ul(Range(keys, func(k string, _ int) *VNode {
		return Li(Key(k), Text(k))
	}))
}

func opStrings(d *memhost.Document) []string {
	var out []string
	for _, op := range d.Ops() {
		out = append(out, op.String())
	}
	return out
}

func TestRenderCreatesTree(t *testing.T) {
	v := Div(ID("app"), Class("card"), StyleProp("color", "red"),
		P(Text("hi")),
	)
	d, r := mount(t, v)

	want := `<div class="card" style="color: red;" id="app"><p>hi</p></div>`
	if got := d.Body().InnerHTML(); got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
	if v.Host == nil || v.Children[0].Host == nil || v.Children[0].Children[0].Host == nil {
		t.Error("Render should stamp every descriptor with its host node")
	}
	if got := r.LastStats().Created; got != 3 {
		t.Errorf("Created = %d, want 3", got)
	}
}

func TestPatchFirstMount(t *testing.T) {
	d := memhost.New()
	header := d.Element(d.Body(), "header")
	placeholder := d.Element(d.Body(), "div")
	footer := d.Element(d.Body(), "footer")
	r := NewReconciler(d)

	v := Div(ID("app"), Text("a1"))
	n, err := r.Patch(placeholder, v)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if n != v.Host {
		t.Error("Patch should return the new descriptor's host node")
	}

	got := d.Body().Children()
	want := []*memhost.Node{header, v.Host.(*memhost.Node), footer}
	if len(got) != len(want) {
		t.Fatalf("body has %d children, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("body child %d = #%d, want #%d", i, got[i].ID, want[i].ID)
		}
	}
	if placeholder.Parent() != nil {
		t.Error("mount point should be removed")
	}
	if got := v.Host.(*memhost.Node).TextContent(); got != "a1" {
		t.Errorf("text = %q, want a1", got)
	}
}

func tree(count int, keys ...string) *VNode {
	return Div(ID("app"), Class("card", "wide"),
		Style(map[string]string{"color": "red", "margin": "0"}),
		H1(Textf("count %d", count)),
		Input(Type("checkbox"), Disabled(true), Prop("tabindex", 3)),
		keyedList(keys...),
	)
}

func TestPatchIdenticalTreeDoesNoMutations(t *testing.T) {
	old := tree(1, "a", "b", "c")
	d, r := mount(t, old)

	next := tree(1, "a", "b", "c")
	if _, err := r.Patch(old, next); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if ops := opStrings(d); len(ops) != 0 {
		t.Errorf("identical patch recorded ops: %v", ops)
	}

	var oldHosts, newHosts []any
	Walk(old, func(v *VNode) bool { oldHosts = append(oldHosts, v.Host); return true })
	Walk(next, func(v *VNode) bool { newHosts = append(newHosts, v.Host); return true })
	if len(oldHosts) != len(newHosts) {
		t.Fatalf("walk lengths differ: %d vs %d", len(oldHosts), len(newHosts))
	}
	for i := range oldHosts {
		if oldHosts[i] != newHosts[i] {
			t.Errorf("descriptor %d lost its host node", i)
		}
	}
}

func TestPatchTextNode(t *testing.T) {
	old := P(Text("a1"))
	d, r := mount(t, old)
	text := old.Children[0].Host

	next := P(Text("a2"))
	if _, err := r.Patch(old, next); err != nil {
		t.Fatal(err)
	}
	if next.Children[0].Host != text {
		t.Error("text node should be reused")
	}
	if diff := cmp.Diff([]string{`SetText #3 "a2"`}, opStrings(d)); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if got := d.Body().InnerHTML(); got != "<p>a2</p>" {
		t.Errorf("HTML = %q", got)
	}

	d.ResetOps()
	same := P(Text("a2"))
	if _, err := r.Patch(next, same); err != nil {
		t.Fatal(err)
	}
	if len(d.Ops()) != 0 {
		t.Errorf("unchanged text recorded ops: %v", d.Ops())
	}
}

func TestKeyedReorderReusesNodes(t *testing.T) {
	old := keyedList("a", "b", "c", "d")
	d, r := mount(t, old)

	next := keyedList("d", "a", "b", "c")
	if _, err := r.Patch(old, next); err != nil {
		t.Fatal(err)
	}

	if got := d.Count(memhost.OpCreateElement, memhost.OpCreateText); got != 0 {
		t.Errorf("reorder created %d nodes, want 0", got)
	}
	if got := next.Host.(*memhost.Node).TextContent(); got != "dabc" {
		t.Errorf("order = %q, want dabc", got)
	}
	for i, c := range next.Children {
		if c.Host != old.Children[(i+3)%4].Host {
			t.Errorf("child %q was not reused", c.Key)
		}
	}
	if got := r.LastStats().Moved; got != 1 {
		t.Errorf("Moved = %d, want 1", got)
	}
}

func TestKeyedChildrenTable(t *testing.T) {
	tests := []struct {
		name string
		old  []string
		next []string
	}{
		{"append", []string{"a", "b"}, []string{"a", "b", "c", "d"}},
		{"prepend", []string{"c", "d"}, []string{"a", "b", "c", "d"}},
		{"insert middle", []string{"a", "d"}, []string{"a", "b", "c", "d"}},
		{"remove head", []string{"a", "b", "c"}, []string{"b", "c"}},
		{"remove tail", []string{"a", "b", "c"}, []string{"a", "b"}},
		{"remove middle", []string{"a", "b", "c", "d"}, []string{"a", "d"}},
		{"reverse", []string{"a", "b", "c", "d", "e"}, []string{"e", "d", "c", "b", "a"}},
		{"swap ends", []string{"a", "b", "c", "d"}, []string{"d", "b", "c", "a"}},
		{"move to tail", []string{"a", "b", "c", "d"}, []string{"b", "c", "d", "a"}},
		{"shuffle", []string{"a", "b", "c", "d", "e"}, []string{"c", "e", "a", "d", "b"}},
		{"mixed", []string{"a", "b", "c", "d", "e"}, []string{"e", "c", "a", "f"}},
		{"lookup hit at first slot", []string{"a", "b", "c"}, []string{"b", "x", "a", "y"}},
		{"all new", []string{"a", "b"}, []string{"c", "d", "e"}},
		{"single replaced", []string{"a"}, []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := keyedList(tt.old...)
			d, r := mount(t, old)

			oldHosts := make(map[string]any)
			for _, c := range old.Children {
				oldHosts[c.Key] = c.Host
			}

			next := keyedList(tt.next...)
			if _, err := r.Patch(old, next); err != nil {
				t.Fatal(err)
			}

			ul := next.Host.(*memhost.Node)
			if diff := cmp.Diff(strings.Join(tt.next, ""), ul.TextContent()); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
			children := ul.Children()
			if len(children) != len(next.Children) {
				t.Fatalf("host has %d children, want %d", len(children), len(next.Children))
			}

			fresh := 0
			for i, c := range next.Children {
				if children[i] != c.Host {
					t.Errorf("descriptor %q does not own host child %d", c.Key, i)
				}
				if h, ok := oldHosts[c.Key]; ok {
					if h != c.Host {
						t.Errorf("key %q was re-created", c.Key)
					}
				} else {
					fresh++
				}
			}
			if got := d.Count(memhost.OpCreateElement); got != fresh {
				t.Errorf("created %d elements, want %d", got, fresh)
			}
			for _, c := range old.Children {
				if n := c.Host.(*memhost.Node); n.Parent() != nil && n.Parent() != ul {
					t.Errorf("old node %q attached elsewhere", c.Key)
				}
			}
		})
	}
}

func TestUnkeyedChildrenMatchByPosition(t *testing.T) {
	old := Ul(Li("x"), Li("y"))
	d, r := mount(t, old)

	next := Ul(Li("y"), Li("x"))
	if _, err := r.Patch(old, next); err != nil {
		t.Fatal(err)
	}
	if next.Children[0].Host != old.Children[0].Host {
		t.Error("unkeyed children should be patched in place")
	}
	if got := d.Count(memhost.OpSetText); got != 2 {
		t.Errorf("SetText = %d, want 2", got)
	}
	if got := d.Count(memhost.OpInsert); got != 0 {
		t.Errorf("Insert = %d, want 0", got)
	}
}

func TestEmptyChildrenShortcuts(t *testing.T) {
	t.Run("old empty", func(t *testing.T) {
		old := keyedList()
		d, r := mount(t, old)

		next := keyedList("a", "b", "c")
		if _, err := r.Patch(old, next); err != nil {
			t.Fatal(err)
		}
		if got := next.Host.(*memhost.Node).TextContent(); got != "abc" {
			t.Errorf("order = %q, want abc", got)
		}
		if got := d.Count(memhost.OpClearChildren); got != 1 {
			t.Errorf("ClearChildren = %d, want 1", got)
		}
	})

	t.Run("new empty", func(t *testing.T) {
		old := keyedList("a", "b")
		d, r := mount(t, old)

		next := keyedList()
		if _, err := r.Patch(old, next); err != nil {
			t.Fatal(err)
		}
		if n := len(next.Host.(*memhost.Node).Children()); n != 0 {
			t.Errorf("%d children left", n)
		}
		if diff := cmp.Diff([]string{"ClearChildren #2"}, opStrings(d)); diff != "" {
			t.Errorf("ops mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestTagMismatchReplaces(t *testing.T) {
	old := Div(Span(Key("x"), "x"), P("tail"))
	d, r := mount(t, old)
	span := old.Children[0].Host.(*memhost.Node)

	next := Div(Section(Key("x"), "x"), P("tail"))
	if _, err := r.Patch(old, next); err != nil {
		t.Fatal(err)
	}
	if span.Parent() != nil {
		t.Error("old node should be detached")
	}
	if got := d.Body().InnerHTML(); got != "<div><section>x</section><p>tail</p></div>" {
		t.Errorf("HTML = %q", got)
	}
	if got := r.LastStats().Replaced; got != 1 {
		t.Errorf("Replaced = %d, want 1", got)
	}
}

func TestRootTagMismatchReturnsNewHost(t *testing.T) {
	old := Div("a")
	d, r := mount(t, old)

	next := Section("a")
	n, err := r.Patch(old, next)
	if err != nil {
		t.Fatal(err)
	}
	if n == old.Host {
		t.Error("Patch should return the replacement node")
	}
	if got := d.Body().InnerHTML(); got != "<section>a</section>" {
		t.Errorf("HTML = %q", got)
	}
}

func TestApplyProps(t *testing.T) {
	tests := []struct {
		name string
		old  Props
		next Props
		want []string
	}{
		{
			name: "remove absent attribute",
			old:  Props{"id": "a", "title": "t"},
			next: Props{"id": "a"},
			want: []string{`RemoveAttr #2 title`},
		},
		{
			name: "change attribute",
			old:  Props{"id": "a"},
			next: Props{"id": "b"},
			want: []string{`SetAttr #2 id="b"`},
		},
		{
			name: "style entries",
			old:  Props{"style": map[string]string{"color": "red", "margin": "0"}},
			next: Props{"style": map[string]string{"color": "blue"}},
			want: []string{`RemoveStyle #2 margin`, `SetStyle #2 color="blue"`},
		},
		{
			name: "style removed",
			old:  Props{"style": "color: red; margin: 0"},
			next: Props{},
			want: []string{`RemoveStyle #2 color`, `RemoveStyle #2 margin`},
		},
		{
			name: "class overwritten",
			old:  Props{"class": "a"},
			next: Props{"class": []string{"a", "b"}},
			want: []string{`SetClass #2 class="a b"`},
		},
		{
			name: "class removed",
			old:  Props{"class": "a"},
			next: Props{},
			want: []string{`RemoveAttr #2 class`},
		},
		{
			name: "class map unchanged",
			old:  Props{"class": map[string]bool{"a": true, "b": false}},
			next: Props{"class": "a"},
			want: nil,
		},
		{
			name: "false removes",
			old:  Props{"disabled": true},
			next: Props{"disabled": false},
			want: []string{`RemoveAttr #2 disabled`},
		},
		{
			name: "nil to value",
			old:  Props{"title": nil},
			next: Props{"title": 7},
			want: []string{`SetAttr #2 title="7"`},
		},
		{
			name: "key is not an attribute",
			old:  Props{"key": "a"},
			next: Props{"key": "b"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := &VNode{Kind: KindElement, Tag: "div", Props: tt.old}
			d, r := mount(t, old)

			next := &VNode{Kind: KindElement, Tag: "div", Props: tt.next}
			if _, err := r.Patch(old, next); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, opStrings(d)); diff != "" {
				t.Errorf("ops mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPatchMissingHost(t *testing.T) {
	r := NewReconciler(memhost.New())

	_, err := r.Patch(Div(), Div())
	if !errors.Is(err, ErrNoHost) {
		t.Errorf("err = %v, want ErrNoHost", err)
	}
}

func TestPatchMissingChildHost(t *testing.T) {
	old := Div(P("a"))
	_, r := mount(t, old)
	old.Children[0].Host = nil

	_, err := r.Patch(old, Div(P("b")))
	if !errors.Is(err, ErrNoHost) {
		t.Errorf("err = %v, want ErrNoHost", err)
	}
}

func TestPatchInvalidTarget(t *testing.T) {
	r := NewReconciler(memhost.New())

	tests := []struct {
		name string
		old  any
		next *VNode
	}{
		{"nil next", Div(), nil},
		{"nil old", nil, Div()},
		{"nil old descriptor", (*VNode)(nil), Div()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Patch(tt.old, tt.next)
			if !errors.Is(err, ErrInvalidTarget) {
				t.Errorf("err = %v, want ErrInvalidTarget", err)
			}
		})
	}
}

func TestPatchDetachedMountPoint(t *testing.T) {
	d := memhost.New()
	r := NewReconciler(d)

	_, err := r.Patch(d.CreateElement("div"), Div(Text("a")))
	if !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
	if n := len(d.Ops()); n != 1 {
		t.Errorf("got %d ops, want only the mount point's creation", n)
	}
}

func TestRenderNilChild(t *testing.T) {
	r := NewReconciler(memhost.New())
	v := Div()
	v.Children = append(v.Children, nil)

	if _, err := r.Render(v); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
}

func TestPatchNilChild(t *testing.T) {
	old := Ul(Li(Key("a"), Text("a")))
	_, r := mount(t, old)
	next := Ul()
	next.Children = []*VNode{nil}

	_, err := r.Patch(old, next)
	if !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
}
