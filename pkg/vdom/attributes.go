package vdom

import (
	"fmt"
	"strings"
)

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Prop sets an arbitrary attribute.
func Prop(name string, value any) Attr { return attr(name, value) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// ClassMap sets the class attribute from a set of conditional classes.
// Only classes mapped to true are kept; they are written in sorted order.
func ClassMap(classes map[string]bool) Attr { return attr("class", classes) }

// Style sets style properties. Several Style arguments on one element merge.
func Style(props map[string]string) Attr { return attr("style", props) }

// StyleProp sets a single style property.
func StyleProp(prop, value string) Attr {
	return attr("style", map[string]string{prop: value})
}

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Title sets the title attribute.
func Title(title string) Attr { return attr("title", title) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Value sets the value attribute.
func Value(v string) Attr { return attr("value", v) }

// Disabled sets the disabled attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// Key creates a key attribute for reconciliation.
//
// Keys compare by their formatted string, so Key(1) and Key("1") are the
// same key. Key(nil) and Key("") leave the node unkeyed.
func Key(key any) Attr {
	return attr("key", keyString(key))
}

func keyString(key any) string {
	switch k := key.(type) {
	case nil:
		return ""
	case string:
		return k
	default:
		return fmt.Sprintf("%v", k)
	}
}
