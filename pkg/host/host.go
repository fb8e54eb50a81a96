// Package host defines the adapter between the reconciler and the live tree
// it mutates. A browser document, a terminal screen or the in-memory tree in
// package memhost can sit behind it.
package host

// Node is an opaque handle to a live node. Implementations return their own
// concrete node type; the reconciler only passes handles back to the Host
// that produced them. A missing node is the untyped nil.
type Node any

// Host performs the primitive tree operations the reconciler needs.
type Host interface {
	// CreateElement creates a detached element node.
	CreateElement(tag string) Node

	// CreateText creates a detached text node.
	CreateText(text string) Node

	// SetAttribute sets a generic attribute.
	SetAttribute(n Node, name, value string)

	// RemoveAttribute removes a generic attribute.
	RemoveAttribute(n Node, name string)

	// SetStyle sets one style property.
	SetStyle(n Node, prop, value string)

	// RemoveStyle clears one style property.
	RemoveStyle(n Node, prop string)

	// SetClass replaces the class attribute wholesale.
	SetClass(n Node, class string)

	// SetText replaces the content of a text node.
	SetText(n Node, text string)

	// InsertBefore inserts child into parent before ref, or appends it when
	// ref is nil. A child that already has a parent is moved.
	InsertBefore(parent, child, ref Node)

	// Remove detaches n from its parent.
	Remove(n Node)

	// ClearChildren detaches every child of n.
	ClearChildren(n Node)

	// Parent returns the parent of n, or nil.
	Parent(n Node) Node

	// NextSibling returns the sibling after n, or nil.
	NextSibling(n Node) Node
}
