package memhost

import "strings"

// Node is a node of a Document. Text nodes have an empty Tag.
type Node struct {
	ID    int
	Tag   string
	Text  string
	Attrs map[string]string
	Style map[string]string
	Class string

	parent   *Node
	children []*Node
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Child returns the i-th child, or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Attr returns the value of a generic attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) attach(child *Node, idx int) {
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
	child.parent = n
}

func (n *Node) detach(child *Node) {
	if idx := n.indexOf(child); idx >= 0 {
		n.children = append(n.children[:idx], n.children[idx+1:]...)
	}
	child.parent = nil
}
