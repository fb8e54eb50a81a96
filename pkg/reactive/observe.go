package reactive

import (
	"encoding/json"
	"reflect"
	"unsafe"
)

// Observed is an observed container: an *Object or an *Array.
type Observed interface {
	// Dep returns the container's own subscription. It is notified when
	// the container's shape changes.
	Dep() *Subscription

	// ToPlain returns an untracked deep copy as map[string]any / []any.
	ToPlain() any

	json.Marshaler

	observed()
}

// Wrap returns an observed view of v when v is a map[string]any or an []any,
// wrapping nested maps and slices recursively. Values that are already
// observed are returned unchanged; every other value is returned as is.
//
// The raw map or slice is copied into the container; later changes to it
// are not seen. A raw map or slice reached more than once within one call
// becomes a single container, so aliases share their subscriptions.
func (r *Runtime) Wrap(v any) any {
	return r.wrap(v, nil)
}

// rawID identifies a raw map or slice by its backing storage.
type rawID struct {
	ptr unsafe.Pointer
	len int
}

// wrapSeen maps raw containers already wrapped in one Wrap call.
type wrapSeen map[rawID]Observed

func (r *Runtime) wrap(v any, seen wrapSeen) any {
	switch val := v.(type) {
	case Observed:
		return val
	case map[string]any:
		if val == nil {
			return r.newObject(nil, seen)
		}
		id := rawID{ptr: reflect.ValueOf(val).UnsafePointer()}
		if ob, ok := seen[id]; ok {
			return ob
		}
		if seen == nil {
			seen = make(wrapSeen)
		}
		return r.newObject(val, seen)
	case []any:
		if len(val) == 0 {
			return r.newArray(val, seen)
		}
		id := rawID{ptr: unsafe.Pointer(&val[0]), len: len(val)}
		if ob, ok := seen[id]; ok {
			return ob
		}
		if seen == nil {
			seen = make(wrapSeen)
		}
		return r.newArray(val, seen)
	default:
		return v
	}
}

// remember records ob as the container for raw in seen.
func (s wrapSeen) remember(raw any, ob Observed) {
	if s == nil {
		return
	}
	switch val := raw.(type) {
	case map[string]any:
		if val != nil {
			s[rawID{ptr: reflect.ValueOf(val).UnsafePointer()}] = ob
		}
	case []any:
		if len(val) > 0 {
			s[rawID{ptr: unsafe.Pointer(&val[0]), len: len(val)}] = ob
		}
	}
}

// IsObserved reports whether v is an observed container.
func IsObserved(v any) bool {
	_, ok := v.(Observed)
	return ok
}

// ToPlain unwraps v if it is an observed container.
func ToPlain(v any) any {
	if ob, ok := v.(Observed); ok {
		return ob.ToPlain()
	}
	return v
}

// dependValue registers c with the container subscription of v, and for
// arrays with the container subscription of every nested element.
func dependValue(v any, c *Computation) {
	ob, ok := v.(Observed)
	if !ok {
		return
	}
	ob.Dep().Depend(c)
	if arr, ok := ob.(*Array); ok {
		dependArray(arr, c)
	}
}

func dependArray(arr *Array, c *Computation) {
	for _, item := range arr.items {
		ob, ok := item.(Observed)
		if !ok {
			continue
		}
		ob.Dep().Depend(c)
		if nested, ok := ob.(*Array); ok {
			dependArray(nested, c)
		}
	}
}

// identical reports whether a write of b over a is a no-op. Values of
// different dynamic types, or of types that are not comparable, are never
// identical.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
