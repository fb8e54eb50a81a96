package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/reflow/pkg/host/memhost"
)

func TestEncodeSetTextPatch(t *testing.T) {
	u := &Update{
		Type:  FramePatch,
		Flags: FlagNoHTML,
		Seq:   2,
		Ops:   []memhost.Op{{Kind: memhost.OpSetText, Node: 3, Value: "a2"}},
	}
	want := []byte{
		// header
		0x02, 0x01, 0x00, 0x00, 0x00, 0x08,
		// seq, html, op count
		0x02, 0x00, 0x01,
		// SetText #3 "a2"
		0x08, 0x03, 0x02, 'a', '2',
	}
	if got := Encode(u); !bytes.Equal(got, want) {
		t.Errorf("Encode = % x, want % x", got, want)
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	u := &Update{
		Type: FramePatch,
		Seq:  300,
		HTML: `<ul><li class="done">ü</li></ul>`,
		Ops: []memhost.Op{
			{Kind: memhost.OpCreateElement, Node: 5, Name: "li"},
			{Kind: memhost.OpCreateText, Node: 6, Value: "ü"},
			{Kind: memhost.OpSetAttr, Node: 5, Name: "title", Value: "x"},
			{Kind: memhost.OpRemoveAttr, Node: 5, Name: "id"},
			{Kind: memhost.OpSetStyle, Node: 5, Name: "color", Value: "red"},
			{Kind: memhost.OpRemoveStyle, Node: 5, Name: "margin"},
			{Kind: memhost.OpSetClass, Node: 5, Name: "class", Value: "done"},
			{Kind: memhost.OpSetText, Node: 6, Value: ""},
			{Kind: memhost.OpInsert, Node: 5, Parent: 1, Ref: 200},
			{Kind: memhost.OpInsert, Node: 6, Parent: 5},
			{Kind: memhost.OpRemove, Node: 4},
			{Kind: memhost.OpClearChildren, Node: 1},
		},
	}

	got, err := Decode(Encode(u))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(u, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorFrame(t *testing.T) {
	u := &Update{Type: FrameError, Seq: 7, Error: "R002: invalid patch target"}
	got, err := Decode(Encode(u))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Error != u.Error || got.Seq != 7 || got.Ops != nil {
		t.Errorf("Decode = %+v, want %+v", got, u)
	}
}

func TestDecodeErrors(t *testing.T) {
	valid := Encode(&Update{
		Type: FramePatch,
		Seq:  1,
		HTML: "<p>x</p>",
		Ops:  []memhost.Op{{Kind: memhost.OpSetAttr, Node: 2, Name: "id", Value: "a"}},
	})

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, io.ErrUnexpectedEOF},
		{"short header", valid[:3], io.ErrUnexpectedEOF},
		{"short payload", valid[:len(valid)-1], io.ErrUnexpectedEOF},
		{"unknown frame type", append([]byte{0x09}, valid[1:]...), ErrInvalidFrameType},
		{"huge frame", []byte{0x02, 0x00, 0xff, 0xff, 0xff, 0xff}, ErrFrameTooLarge},
		{"varint overflow", frame(FramePatch, bytes.Repeat([]byte{0xff}, 11)), ErrVarintOverflow},
		{"string past end", frame(FramePatch, []byte{0x01, 0x05, 'a'}), io.ErrUnexpectedEOF},
		{"count past end", frame(FramePatch, []byte{0x01, 0x00, 0x05}), io.ErrUnexpectedEOF},
		{"count over limit", frame(FramePatch, []byte{0x01, 0x00, 0xa1, 0x8d, 0x06}), ErrCollectionTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeUnknownOp(t *testing.T) {
	_, err := Decode(frame(FramePatch, []byte{0x01, 0x00, 0x01, 0x7f, 0x01}))
	if err == nil {
		t.Fatal("expected error for unknown op kind")
	}
}

func TestFrameTypeString(t *testing.T) {
	tests := map[FrameType]string{
		FrameInit:     "Init",
		FramePatch:    "Patch",
		FrameError:    "Error",
		FrameType(42): "Unknown",
	}
	for ft, want := range tests {
		if got := ft.String(); got != want {
			t.Errorf("FrameType(%d).String() = %q, want %q", ft, got, want)
		}
	}
	if !FrameFlags(FlagNoHTML).Has(FlagNoHTML) || FrameFlags(0).Has(FlagNoHTML) {
		t.Error("FrameFlags.Has mismatch")
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(1 << 20)
	if e.Len() != 3 {
		t.Errorf("Len = %d, want 3", e.Len())
	}
	e.Reset()
	e.WriteString("ab")
	if !bytes.Equal(e.Bytes(), []byte{0x02, 'a', 'b'}) {
		t.Errorf("Bytes = % x", e.Bytes())
	}
}

func frame(ft FrameType, payload []byte) []byte {
	f := Frame{Type: ft, Payload: payload}
	return f.Encode()
}
