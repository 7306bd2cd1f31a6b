package ws

import (
	"encoding/json"
	"fmt"

	"github.com/dohr-michael/todoscope/internal/todo"
)

// Message types on the viewer protocol.
const (
	TypeTodos        = "todos"        // server → viewer: full snapshot
	TypeToggleStatus = "toggleStatus" // viewer → server
	TypeUpdateIndent = "updateIndent" // viewer → server
)

// SnapshotMessage is the server→viewer frame carrying the full todo
// list. It is sent wholesale on connect and after every mutation;
// viewers never receive deltas.
type SnapshotMessage struct {
	Type string        `json:"type"`
	Data []todo.Record `json:"data"`
}

// MarshalSnapshot serializes the snapshot frame for records.
func MarshalSnapshot(records []todo.Record) ([]byte, error) {
	if records == nil {
		records = []todo.Record{}
	}
	return json.Marshal(SnapshotMessage{Type: TypeTodos, Data: records})
}

// ClientMessage is a viewer→server mutation request. Timestamp
// addresses the record; IndentLevel only applies to updateIndent.
type ClientMessage struct {
	Type        string `json:"type"`
	Timestamp   string `json:"timestamp"`
	IndentLevel int    `json:"indentLevel"`
}

// ParseClientMessage deserializes and validates a viewer frame.
func ParseClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, err
	}

	switch msg.Type {
	case TypeToggleStatus, TypeUpdateIndent:
	default:
		return ClientMessage{}, fmt.Errorf("unknown message type: %q", msg.Type)
	}

	if msg.Timestamp == "" {
		return ClientMessage{}, fmt.Errorf("message %q has no timestamp", msg.Type)
	}
	return msg, nil
}
