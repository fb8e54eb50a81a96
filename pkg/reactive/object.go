package reactive

import (
	"encoding/json"
	"sort"
)

// Object is an observed map[string]any. Each property owns one
// Subscription, created the first time it is read under a computation.
type Object struct {
	rt    *Runtime
	dep   *Subscription
	keys  []string
	props map[string]*property
}

type property struct {
	value any
	sub   *Subscription
}

func (r *Runtime) newObject(raw map[string]any, seen wrapSeen) *Object {
	o := &Object{
		rt:    r,
		dep:   r.NewSubscription(),
		keys:  make([]string, 0, len(raw)),
		props: make(map[string]*property, len(raw)),
	}
	seen.remember(raw, o)
	for k := range raw {
		o.keys = append(o.keys, k)
	}
	sort.Strings(o.keys)
	for _, k := range o.keys {
		o.props[k] = &property{value: r.wrap(raw[k], seen)}
	}
	return o
}

func (*Object) observed() {}

// Dep returns the object's container subscription.
func (o *Object) Dep() *Subscription {
	return o.dep
}

// Get returns the value stored under key. Under an active computation it
// registers the property, and if the value is itself observed, that
// container as well (for arrays, every nested element container too).
// Reading a missing key registers the object's shape instead, so adding
// the key later notifies the reader.
func (o *Object) Get(key string) any {
	o.rt.check()
	c := o.rt.Active()
	p, ok := o.props[key]
	if !ok {
		o.dep.Depend(c)
		return nil
	}
	if c != nil {
		if p.sub == nil {
			p.sub = o.rt.NewSubscription()
		}
		p.sub.Depend(c)
		dependValue(p.value, c)
	}
	return p.value
}

// Object returns the value under key as an *Object, or nil.
func (o *Object) Object(key string) *Object {
	v, _ := o.Get(key).(*Object)
	return v
}

// Array returns the value under key as an *Array, or nil.
func (o *Object) Array(key string) *Array {
	v, _ := o.Get(key).(*Array)
	return v
}

// Set stores v under key. Writing a value identical to the current one does
// nothing. Maps and slices are wrapped before they are stored. A new key
// notifies the object's shape subscription; an existing key notifies the
// property's readers.
func (o *Object) Set(key string, v any) {
	o.rt.check()
	p, ok := o.props[key]
	if !ok {
		o.props[key] = &property{value: o.rt.Wrap(v)}
		o.keys = append(o.keys, key)
		o.dep.Notify()
		return
	}
	if identical(p.value, v) {
		return
	}
	p.value = o.rt.Wrap(v)
	if p.sub != nil {
		p.sub.Notify()
	}
}

// Delete removes key, notifying its readers and the shape subscription.
func (o *Object) Delete(key string) {
	o.rt.check()
	p, ok := o.props[key]
	if !ok {
		return
	}
	delete(o.props, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	if p.sub != nil {
		p.sub.Notify()
	}
	o.dep.Notify()
}

// Has reports whether key is present, registering the object's shape.
func (o *Object) Has(key string) bool {
	o.rt.check()
	o.dep.Depend(o.rt.Active())
	_, ok := o.props[key]
	return ok
}

// Keys returns the keys in insertion order (initial keys sorted),
// registering the object's shape.
func (o *Object) Keys() []string {
	o.rt.check()
	o.dep.Depend(o.rt.Active())
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys, registering the object's shape.
func (o *Object) Len() int {
	o.rt.check()
	o.dep.Depend(o.rt.Active())
	return len(o.keys)
}

// ToPlain returns an untracked deep copy.
func (o *Object) ToPlain() any {
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = ToPlain(o.props[k].value)
	}
	return out
}

// MarshalJSON implements json.Marshaler without registering dependencies.
func (o *Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.ToPlain())
}
