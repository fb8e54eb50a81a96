package protocol

import (
	"fmt"

	"github.com/vango-dev/reflow/pkg/host/memhost"
)

// Update is the decoded content of a frame.
type Update struct {
	Type  FrameType
	Flags FrameFlags
	Seq   uint64
	HTML  string
	Ops   []memhost.Op
	Error string
}

// Encode encodes u as a complete frame.
func Encode(u *Update) []byte {
	e := NewEncoder()
	EncodeTo(e, u)
	f := Frame{Type: u.Type, Flags: u.Flags, Payload: e.Bytes()}
	return f.Encode()
}

// EncodeTo writes u's payload to e.
func EncodeTo(e *Encoder, u *Update) {
	e.WriteUvarint(u.Seq)
	if u.Type == FrameError {
		e.WriteString(u.Error)
		return
	}
	e.WriteString(u.HTML)
	e.WriteUvarint(uint64(len(u.Ops)))
	for i := range u.Ops {
		encodeOp(e, &u.Ops[i])
	}
}

func encodeOp(e *Encoder, op *memhost.Op) {
	e.WriteUint8(byte(op.Kind))
	e.WriteUvarint(uint64(op.Node))

	switch op.Kind {
	case memhost.OpCreateElement:
		e.WriteString(op.Name)
	case memhost.OpCreateText, memhost.OpSetText, memhost.OpSetClass:
		e.WriteString(op.Value)
	case memhost.OpSetAttr, memhost.OpSetStyle:
		e.WriteString(op.Name)
		e.WriteString(op.Value)
	case memhost.OpRemoveAttr, memhost.OpRemoveStyle:
		e.WriteString(op.Name)
	case memhost.OpInsert:
		e.WriteUvarint(uint64(op.Parent))
		e.WriteUvarint(uint64(op.Ref))
	case memhost.OpRemove, memhost.OpClearChildren:
		// Node ID is sufficient
	}
}

// Decode decodes a complete frame.
func Decode(data []byte) (*Update, error) {
	f, err := DecodeFrame(data)
	if err != nil {
		return nil, err
	}
	u := &Update{Type: f.Type, Flags: f.Flags}
	if err := DecodeFrom(NewDecoder(f.Payload), u); err != nil {
		return nil, err
	}
	return u, nil
}

// DecodeFrom reads a payload of u.Type from d into u.
func DecodeFrom(d *Decoder, u *Update) error {
	var err error
	if u.Seq, err = d.ReadUvarint(); err != nil {
		return err
	}
	if u.Type == FrameError {
		u.Error, err = d.ReadString()
		return err
	}
	if u.HTML, err = d.ReadString(); err != nil {
		return err
	}

	count, err := d.ReadCount()
	if err != nil {
		return err
	}
	u.Ops = make([]memhost.Op, count)
	for i := range u.Ops {
		if err := decodeOp(d, &u.Ops[i]); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
	}
	return nil
}

func decodeOp(d *Decoder, op *memhost.Op) error {
	kind, err := d.ReadByte()
	if err != nil {
		return err
	}
	op.Kind = memhost.OpKind(kind)
	if op.Node, err = d.ReadInt(); err != nil {
		return err
	}

	switch op.Kind {
	case memhost.OpCreateElement:
		op.Name, err = d.ReadString()
	case memhost.OpCreateText, memhost.OpSetText:
		op.Value, err = d.ReadString()
	case memhost.OpSetClass:
		op.Name = "class"
		op.Value, err = d.ReadString()
	case memhost.OpSetAttr, memhost.OpSetStyle:
		if op.Name, err = d.ReadString(); err == nil {
			op.Value, err = d.ReadString()
		}
	case memhost.OpRemoveAttr, memhost.OpRemoveStyle:
		op.Name, err = d.ReadString()
	case memhost.OpInsert:
		if op.Parent, err = d.ReadInt(); err == nil {
			op.Ref, err = d.ReadInt()
		}
	case memhost.OpRemove, memhost.OpClearChildren:
	default:
		return fmt.Errorf("protocol: unknown op kind 0x%02x", kind)
	}
	return err
}
