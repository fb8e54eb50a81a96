package vdom

// El creates an element descriptor with the given tag.
// Arguments can be: nil, Attr, []Attr, Props, *VNode, []*VNode, string.
// A string argument is shorthand for a text child.
func El(tag string, args ...any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: make(Props),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue

		case Attr:
			node.setAttr(v)

		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}

		case Props:
			for k, val := range v {
				node.setAttr(Attr{Key: k, Value: val})
			}

		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case string:
			node.Children = append(node.Children, Text(v))
		}
	}

	return node
}

func (v *VNode) setAttr(a Attr) {
	if a.IsEmpty() {
		return
	}
	if a.Key == "key" {
		v.Key = keyString(a.Value)
		return
	}
	// Multiple Style arguments merge into one map.
	if a.Key == "style" {
		if prev, ok := v.Props["style"]; ok {
			merged := styleMap(prev)
			for p, val := range styleMap(a.Value) {
				merged[p] = val
			}
			v.Props["style"] = merged
			return
		}
	}
	v.Props[a.Key] = a.Value
}

// Div creates a <div> element.
func Div(args ...any) *VNode { return El("div", args...) }

// Span creates a <span> element.
func Span(args ...any) *VNode { return El("span", args...) }

// P creates a <p> element.
func P(args ...any) *VNode { return El("p", args...) }

// H1 creates an <h1> element.
func H1(args ...any) *VNode { return El("h1", args...) }

// H2 creates an <h2> element.
func H2(args ...any) *VNode { return El("h2", args...) }

// Ul creates a <ul> element.
func Ul(args ...any) *VNode { return El("ul", args...) }

// Ol creates an <ol> element.
func Ol(args ...any) *VNode { return El("ol", args...) }

// Li creates an <li> element.
func Li(args ...any) *VNode { return El("li", args...) }

// Button creates a <button> element.
func Button(args ...any) *VNode { return El("button", args...) }

// Input creates an <input> element.
func Input(args ...any) *VNode { return El("input", args...) }

// Label creates a <label> element.
func Label(args ...any) *VNode { return El("label", args...) }

// Section creates a <section> element.
func Section(args ...any) *VNode { return El("section", args...) }

// Table creates a <table> element.
func Table(args ...any) *VNode { return El("table", args...) }

// Tr creates a <tr> element.
func Tr(args ...any) *VNode { return El("tr", args...) }

// Td creates a <td> element.
func Td(args ...any) *VNode { return El("td", args...) }
