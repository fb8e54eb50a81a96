package vdom

import (
	"sort"
	"strings"

	"github.com/vango-dev/reflow/pkg/host"
)

// applyProps brings the host element from the old props to the new ones.
// A key is removed when it is absent from next; values are written only
// when they changed.
func (r *Reconciler) applyProps(el host.Node, old, next Props) {
	for _, k := range sortedKeys(old) {
		if k == "key" {
			continue
		}
		if _, ok := next[k]; ok {
			continue
		}
		switch k {
		case "style":
			for _, p := range sortedKeys(styleMap(old[k])) {
				r.host.RemoveStyle(el, p)
			}
		case "class":
			r.host.RemoveAttribute(el, "class")
		default:
			if _, set := attrValue(old[k]); set {
				r.host.RemoveAttribute(el, k)
			}
		}
	}

	for _, k := range sortedKeys(next) {
		if k == "key" {
			continue
		}
		prev, had := old[k]
		switch k {
		case "style":
			r.patchStyle(el, styleMap(prev), styleMap(next[k]))
		case "class":
			class := classString(next[k])
			if had && classString(prev) == class {
				continue
			}
			r.host.SetClass(el, class)
		default:
			value, set := attrValue(next[k])
			oldValue, oldSet := attrValue(prev)
			switch {
			case !set && had && oldSet:
				r.host.RemoveAttribute(el, k)
			case set && (!had || !oldSet || oldValue != value):
				r.host.SetAttribute(el, k, value)
			}
		}
	}
}

func (r *Reconciler) patchStyle(el host.Node, old, next map[string]string) {
	for _, p := range sortedKeys(old) {
		if _, ok := next[p]; !ok {
			r.host.RemoveStyle(el, p)
		}
	}
	for _, p := range sortedKeys(next) {
		if v, ok := old[p]; ok && v == next[p] {
			continue
		}
		r.host.SetStyle(el, p, next[p])
	}
}

// attrValue converts a generic prop value to its attribute text. The second
// result is false when the attribute should be absent.
func attrValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case bool:
		return "", x
	case string:
		return x, true
	default:
		return Stringify(v), true
	}
}

// classString normalises the accepted class forms to a space separated list.
func classString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, " ")
	case map[string]bool:
		var classes []string
		for _, c := range sortedKeys(x) {
			if x[c] {
				classes = append(classes, c)
			}
		}
		return strings.Join(classes, " ")
	default:
		return Stringify(v)
	}
}

// styleMap normalises the accepted style forms to a property map.
func styleMap(v any) map[string]string {
	out := make(map[string]string)
	switch x := v.(type) {
	case map[string]string:
		for p, val := range x {
			out[p] = val
		}
	case map[string]any:
		for p, val := range x {
			out[p] = Stringify(val)
		}
	case string:
		for _, decl := range strings.Split(x, ";") {
			p, val, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			if p = strings.TrimSpace(p); p != "" {
				out[p] = strings.TrimSpace(val)
			}
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
