package vdom

import (
	"github.com/vango-dev/reflow/pkg/host"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement VKind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// VNode is a node descriptor.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Attributes, "class" and "style"
	Children []*VNode  // Child nodes
	Key      string    // Reconciliation key; "" means unkeyed
	Text     string    // For KindText
	Host     host.Node // Live host node, set by Render and Patch
}

// Props holds element attributes.
//
// "class" may be a string, a []string or a map[string]bool. "style" may be a
// map[string]string, a map[string]any or a "prop: value;" string. Other
// values are written as attributes: nil and false remove the attribute,
// true writes it with an empty value.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// IsText reports whether v is a text descriptor.
func (v *VNode) IsText() bool {
	return v != nil && v.Kind == KindText
}

// sameNode reports whether a and b describe the same logical node: same
// kind, tag and key.
func sameNode(a, b *VNode) bool {
	return a.Kind == b.Kind && a.Tag == b.Tag && a.Key == b.Key
}

// Walk calls fn for v and every descendant in document order. Returning
// false from fn skips the node's children.
func Walk(v *VNode, fn func(*VNode) bool) {
	if v == nil || !fn(v) {
		return
	}
	for _, c := range v.Children {
		Walk(c, fn)
	}
}
