// Package vdom provides node descriptors and the reconciler that turns two
// consecutive descriptor trees into host-tree mutations.
//
// # Core Types
//
// VNode describes one tree node for one render pass: an element with a tag,
// props, an optional key and children, or a text node. After a descriptor
// has been rendered or patched its Host field holds the live host node it
// corresponds to.
//
// # Element API
//
// Descriptors are built with variadic factory functions:
//
//	Div(ID("app"), Class("card"),
//	    H1(Text("Title")),
//	    Ul(Range(items, func(it Item, _ int) *VNode {
//	        return Li(Key(it.ID), Text(it.Name))
//	    })),
//	)
//
// # Reconciliation
//
// Reconciler.Patch either mounts a descriptor over a live host node or
// patches a previous descriptor against a new one. Children are reconciled
// with a keyed two-ended algorithm: start/start, end/end and the two cross
// comparisons handle the common cases without a lookup, and a key to index
// map catches the remaining reorders. Unkeyed children are matched by
// position only.
package vdom
