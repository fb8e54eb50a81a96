package reactive

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Array is an observed []any. Element reads register the array's container
// subscription, and every mutator runs the native slice operation, wraps the
// elements it introduced and then notifies that subscription.
type Array struct {
	rt    *Runtime
	dep   *Subscription
	items []any
}

func (r *Runtime) newArray(raw []any, seen wrapSeen) *Array {
	a := &Array{
		rt:    r,
		dep:   r.NewSubscription(),
		items: make([]any, len(raw)),
	}
	seen.remember(raw, a)
	for i, v := range raw {
		a.items[i] = r.wrap(v, seen)
	}
	return a
}

func (*Array) observed() {}

// Dep returns the array's container subscription.
func (a *Array) Dep() *Subscription {
	return a.dep
}

// Get returns the element at i, or nil when i is out of range.
func (a *Array) Get(i int) any {
	a.track()
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Len returns the number of elements.
func (a *Array) Len() int {
	a.track()
	return len(a.items)
}

// Items returns a shallow copy of the elements.
func (a *Array) Items() []any {
	a.track()
	out := make([]any, len(a.items))
	copy(out, a.items)
	return out
}

// Push appends items and returns the new length.
func (a *Array) Push(items ...any) int {
	a.mutate(func() {
		a.items = append(a.items, a.wrapAll(items)...)
	})
	return len(a.items)
}

// Pop removes and returns the last element, or nil if the array is empty.
func (a *Array) Pop() any {
	var out any
	a.mutate(func() {
		if n := len(a.items); n > 0 {
			out = a.items[n-1]
			a.items[n-1] = nil
			a.items = a.items[:n-1]
		}
	})
	return out
}

// Shift removes and returns the first element, or nil if the array is empty.
func (a *Array) Shift() any {
	var out any
	a.mutate(func() {
		if len(a.items) > 0 {
			out = a.items[0]
			a.items = append(a.items[:0:0], a.items[1:]...)
		}
	})
	return out
}

// Unshift prepends items and returns the new length.
func (a *Array) Unshift(items ...any) int {
	a.mutate(func() {
		next := make([]any, 0, len(items)+len(a.items))
		next = append(next, a.wrapAll(items)...)
		a.items = append(next, a.items...)
	})
	return len(a.items)
}

// Splice removes deleteCount elements starting at start, inserts items in
// their place and returns the removed elements. A negative start counts from
// the end; start and deleteCount are clamped to the array bounds.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	var removed []any
	a.mutate(func() {
		n := len(a.items)
		switch {
		case start < 0:
			start = max(n+start, 0)
		case start > n:
			start = n
		}
		deleteCount = min(max(deleteCount, 0), n-start)

		removed = make([]any, deleteCount)
		copy(removed, a.items[start:start+deleteCount])

		next := make([]any, 0, n-deleteCount+len(items))
		next = append(next, a.items[:start]...)
		next = append(next, a.wrapAll(items)...)
		next = append(next, a.items[start+deleteCount:]...)
		a.items = next
	})
	return removed
}

// Set replaces the element at i. It is a structural write: the shape
// subscription is notified. Out-of-range indexes are ignored.
func (a *Array) Set(i int, v any) {
	if i < 0 || i >= len(a.items) || identical(a.items[i], v) {
		return
	}
	a.mutate(func() {
		a.items[i] = a.rt.Wrap(v)
	})
}

// Reverse reverses the elements in place.
func (a *Array) Reverse() *Array {
	a.mutate(func() {
		for i, j := 0, len(a.items)-1; i < j; i, j = i+1, j-1 {
			a.items[i], a.items[j] = a.items[j], a.items[i]
		}
	})
	return a
}

// Sort sorts the elements in place with a stable sort. A nil less compares
// the elements' fmt.Sprint forms.
func (a *Array) Sort(less func(x, y any) bool) *Array {
	if less == nil {
		less = func(x, y any) bool { return fmt.Sprint(x) < fmt.Sprint(y) }
	}
	a.mutate(func() {
		sort.SliceStable(a.items, func(i, j int) bool {
			return less(a.items[i], a.items[j])
		})
	})
	return a
}

// ToPlain returns an untracked deep copy.
func (a *Array) ToPlain() any {
	out := make([]any, len(a.items))
	for i, v := range a.items {
		out[i] = ToPlain(v)
	}
	return out
}

// MarshalJSON implements json.Marshaler without registering dependencies.
func (a *Array) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToPlain())
}

func (a *Array) track() {
	a.rt.check()
	a.dep.Depend(a.rt.Active())
}

// mutate runs op and then notifies the shape subscription.
func (a *Array) mutate(op func()) {
	a.rt.check()
	op()
	a.dep.Notify()
}

func (a *Array) wrapAll(items []any) []any {
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = a.rt.Wrap(v)
	}
	return out
}
