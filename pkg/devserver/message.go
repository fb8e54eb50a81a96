package devserver

import (
	"github.com/vango-dev/reflow/pkg/host/memhost"
	"github.com/vango-dev/reflow/pkg/protocol"
)

// MessageType identifies a live-update message.
type MessageType string

const (
	// MessageInit is sent once to a client after it connects.
	MessageInit MessageType = "init"

	// MessagePatch is sent after every successful patch.
	MessagePatch MessageType = "patch"

	// MessageError is sent when a patch fails.
	MessageError MessageType = "error"
)

// Message is sent to WebSocket clients.
type Message struct {
	Type  MessageType  `json:"type"`
	Seq   uint64       `json:"seq"`
	HTML  string       `json:"html,omitempty"`
	Ops   []memhost.Op `json:"ops,omitempty"`
	Error string       `json:"error,omitempty"`
}

var frameTypes = map[MessageType]protocol.FrameType{
	MessageInit:  protocol.FrameInit,
	MessagePatch: protocol.FramePatch,
	MessageError: protocol.FrameError,
}

// update converts m for binary clients.
func (m Message) update() *protocol.Update {
	return &protocol.Update{
		Type:  frameTypes[m.Type],
		Seq:   m.Seq,
		HTML:  m.HTML,
		Ops:   m.Ops,
		Error: m.Error,
	}
}
