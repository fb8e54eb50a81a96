package memhost

import "fmt"

// OpKind is the type of a recorded host operation.
type OpKind uint8

const (
	OpCreateElement OpKind = iota + 1
	OpCreateText
	OpSetAttr
	OpRemoveAttr
	OpSetStyle
	OpRemoveStyle
	OpSetClass
	OpSetText
	OpInsert
	OpRemove
	OpClearChildren
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpSetStyle:
		return "SetStyle"
	case OpRemoveStyle:
		return "RemoveStyle"
	case OpSetClass:
		return "SetClass"
	case OpSetText:
		return "SetText"
	case OpInsert:
		return "Insert"
	case OpRemove:
		return "Remove"
	case OpClearChildren:
		return "ClearChildren"
	default:
		return "Unknown"
	}
}

// MarshalText lets op kinds appear by name in JSON.
func (k OpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a name written by MarshalText.
func (k *OpKind) UnmarshalText(text []byte) error {
	for c := OpCreateElement; c <= OpClearChildren; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("memhost: unknown op kind %q", text)
}

// IsCreate reports whether the op creates a node.
func (k OpKind) IsCreate() bool {
	return k == OpCreateElement || k == OpCreateText
}

// Op is one recorded host operation.
type Op struct {
	Kind   OpKind `json:"op"`
	Node   int    `json:"node"`             // Target node ID
	Parent int    `json:"parent,omitempty"` // Parent for Insert
	Ref    int    `json:"ref,omitempty"`    // Reference sibling for Insert, 0 = append
	Name   string `json:"name,omitempty"`   // Attribute, style property or tag
	Value  string `json:"value,omitempty"`  // New value
}

// String formats the op for logs and test failures.
func (o Op) String() string {
	switch o.Kind {
	case OpCreateElement, OpCreateText:
		return fmt.Sprintf("%s #%d %q", o.Kind, o.Node, o.Name+o.Value)
	case OpInsert:
		return fmt.Sprintf("Insert #%d into #%d before #%d", o.Node, o.Parent, o.Ref)
	case OpRemove, OpClearChildren:
		return fmt.Sprintf("%s #%d", o.Kind, o.Node)
	case OpRemoveAttr, OpRemoveStyle:
		return fmt.Sprintf("%s #%d %s", o.Kind, o.Node, o.Name)
	case OpSetText:
		return fmt.Sprintf("SetText #%d %q", o.Node, o.Value)
	default:
		return fmt.Sprintf("%s #%d %s=%q", o.Kind, o.Node, o.Name, o.Value)
	}
}
