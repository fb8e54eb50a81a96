package memhost

import (
	"io"
	"sort"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// HTML serialises n and its descendants. Attributes are sorted for
// deterministic output; class and style come first.
func (n *Node) HTML() string {
	var b strings.Builder
	n.writeHTML(&b)
	return b.String()
}

// InnerHTML serialises the children of n.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		c.writeHTML(&b)
	}
	return b.String()
}

// WriteHTML streams the serialisation of n to w.
func (n *Node) WriteHTML(w io.Writer) error {
	_, err := io.WriteString(w, n.HTML())
	return err
}

func (n *Node) writeHTML(b *strings.Builder) {
	if n.IsText() {
		b.WriteString(escapeHTML(n.Text))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)
	if n.Class != "" {
		writeAttr(b, "class", n.Class)
	}
	if len(n.Style) > 0 {
		writeAttr(b, "style", styleString(n.Style))
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		if k == "class" || k == "style" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeAttr(b, k, n.Attrs[k])
	}
	b.WriteByte('>')

	if voidElements[n.Tag] {
		return
	}
	for _, c := range n.children {
		c.writeHTML(b)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(escapeAttr(value))
	b.WriteByte('"')
}

func styleString(style map[string]string) string {
	props := make([]string, 0, len(style))
	for p := range style {
		props = append(props, p)
	}
	sort.Strings(props)

	var b strings.Builder
	for i, p := range props {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
		b.WriteString(": ")
		b.WriteString(style[p])
		b.WriteByte(';')
	}
	return b.String()
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for attribute values, including whitespace that
// could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteString(escapeHTML(string(r)))
		}
	}

	return buf.String()
}
