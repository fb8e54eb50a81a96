// Package protocol is the binary encoding of live-update frames.
//
// WebSocket clients that connect with ?format=binary receive these frames
// instead of JSON. The payload carries the same information as the JSON
// message: the sequence number, the serialised tree and the host operations
// of the patch. Integers are varints and strings are length prefixed, so a
// typical SetText patch costs a handful of bytes plus the HTML.
//
// # Frame Format
//
//	┌────────────┬────────────┬──────────────────────────────┐
//	│ Frame Type │ Flags      │ Payload Length               │
//	│ (1 byte)   │ (1 byte)   │ (4 bytes, big-endian)        │
//	└────────────┴────────────┴──────────────────────────────┘
//	│ Payload                                                 │
//	└─────────────────────────────────────────────────────────┘
//
// # Payloads
//
// Init and Patch:
//
//	seq:uvarint  html:string  count:uvarint  op*
//
// where each op is
//
//	kind:byte  node:uvarint  fields...
//
// and the fields depend on the kind: CreateElement carries the tag,
// CreateText, SetText and SetClass the value, SetAttr and SetStyle a name
// and a value, RemoveAttr and RemoveStyle a name, Insert the parent and
// reference node IDs (0 = append). Remove and ClearChildren carry nothing.
//
// Error:
//
//	seq:uvarint  message:string
//
// FlagNoHTML marks a Patch frame whose html field is empty because the
// client asked for ops only.
package protocol
