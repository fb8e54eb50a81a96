package memhost

import (
	"fmt"

	"github.com/vango-dev/reflow/pkg/host"
)

// Document is an in-memory host tree. Node IDs are assigned in creation
// order starting at 1; the body created by New has ID 1.
type Document struct {
	nextID int
	body   *Node
	ops    []Op
}

var _ host.Host = (*Document)(nil)

// New creates a document with an empty body element.
func New() *Document {
	d := &Document{}
	d.body = d.newNode("body", "")
	return d
}

// Body returns the document's root element.
func (d *Document) Body() *Node {
	return d.body
}

// Ops returns a copy of the recorded operations.
func (d *Document) Ops() []Op {
	out := make([]Op, len(d.ops))
	copy(out, d.ops)
	return out
}

// ResetOps clears the operation log.
func (d *Document) ResetOps() {
	d.ops = nil
}

// Count returns how many recorded operations have one of the given kinds.
func (d *Document) Count(kinds ...OpKind) int {
	n := 0
	for _, op := range d.ops {
		for _, k := range kinds {
			if op.Kind == k {
				n++
				break
			}
		}
	}
	return n
}

// Mutations returns the number of recorded operations that are not node
// creations.
func (d *Document) Mutations() int {
	n := 0
	for _, op := range d.ops {
		if !op.Kind.IsCreate() {
			n++
		}
	}
	return n
}

// Element creates an element and appends it to parent without recording
// anything. It is meant for building the initial page a tree is mounted on.
func (d *Document) Element(parent *Node, tag string) *Node {
	n := d.newNode(tag, "")
	parent.attach(n, len(parent.children))
	return n
}

// CreateElement implements host.Host.
func (d *Document) CreateElement(tag string) host.Node {
	n := d.newNode(tag, "")
	d.record(Op{Kind: OpCreateElement, Node: n.ID, Name: tag})
	return n
}

// CreateText implements host.Host.
func (d *Document) CreateText(text string) host.Node {
	n := d.newNode("", text)
	d.record(Op{Kind: OpCreateText, Node: n.ID, Value: text})
	return n
}

// SetAttribute implements host.Host.
func (d *Document) SetAttribute(hn host.Node, name, value string) {
	n := d.node(hn)
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
	d.record(Op{Kind: OpSetAttr, Node: n.ID, Name: name, Value: value})
}

// RemoveAttribute implements host.Host.
func (d *Document) RemoveAttribute(hn host.Node, name string) {
	n := d.node(hn)
	if name == "class" {
		n.Class = ""
	}
	if name == "style" {
		n.Style = nil
	}
	delete(n.Attrs, name)
	d.record(Op{Kind: OpRemoveAttr, Node: n.ID, Name: name})
}

// SetStyle implements host.Host.
func (d *Document) SetStyle(hn host.Node, prop, value string) {
	n := d.node(hn)
	if n.Style == nil {
		n.Style = make(map[string]string)
	}
	n.Style[prop] = value
	d.record(Op{Kind: OpSetStyle, Node: n.ID, Name: prop, Value: value})
}

// RemoveStyle implements host.Host.
func (d *Document) RemoveStyle(hn host.Node, prop string) {
	n := d.node(hn)
	delete(n.Style, prop)
	d.record(Op{Kind: OpRemoveStyle, Node: n.ID, Name: prop})
}

// SetClass implements host.Host.
func (d *Document) SetClass(hn host.Node, class string) {
	n := d.node(hn)
	n.Class = class
	d.record(Op{Kind: OpSetClass, Node: n.ID, Name: "class", Value: class})
}

// SetText implements host.Host.
func (d *Document) SetText(hn host.Node, text string) {
	n := d.node(hn)
	n.Text = text
	d.record(Op{Kind: OpSetText, Node: n.ID, Value: text})
}

// InsertBefore implements host.Host.
func (d *Document) InsertBefore(hp, hc, href host.Node) {
	parent, child := d.node(hp), d.node(hc)
	var ref *Node
	if href != nil {
		ref = d.node(href)
	}
	if ref == child {
		return
	}
	if child.parent != nil {
		child.parent.detach(child)
	}

	idx := len(parent.children)
	refID := 0
	if ref != nil {
		idx = parent.indexOf(ref)
		if idx < 0 {
			panic(fmt.Sprintf("memhost: node #%d is not a child of #%d", ref.ID, parent.ID))
		}
		refID = ref.ID
	}
	parent.attach(child, idx)
	d.record(Op{Kind: OpInsert, Node: child.ID, Parent: parent.ID, Ref: refID})
}

// Remove implements host.Host.
func (d *Document) Remove(hn host.Node) {
	n := d.node(hn)
	if n.parent == nil {
		return
	}
	n.parent.detach(n)
	d.record(Op{Kind: OpRemove, Node: n.ID})
}

// ClearChildren implements host.Host.
func (d *Document) ClearChildren(hn host.Node) {
	n := d.node(hn)
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	d.record(Op{Kind: OpClearChildren, Node: n.ID})
}

// Parent implements host.Host.
func (d *Document) Parent(hn host.Node) host.Node {
	p := d.node(hn).parent
	if p == nil {
		return nil
	}
	return p
}

// NextSibling implements host.Host.
func (d *Document) NextSibling(hn host.Node) host.Node {
	n := d.node(hn)
	if n.parent == nil {
		return nil
	}
	idx := n.parent.indexOf(n)
	if idx+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[idx+1]
}

func (d *Document) newNode(tag, text string) *Node {
	d.nextID++
	return &Node{ID: d.nextID, Tag: tag, Text: text}
}

func (d *Document) node(hn host.Node) *Node {
	n, ok := hn.(*Node)
	if !ok || n == nil {
		panic(fmt.Sprintf("memhost: not a memhost node: %T", hn))
	}
	return n
}

func (d *Document) record(op Op) {
	d.ops = append(d.ops, op)
}
