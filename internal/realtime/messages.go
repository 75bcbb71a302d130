package realtime

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"coscribe/internal/domain/models"
)

// Message types on the live connection. Client to server: update and
// cursor_update. Server to clients: the same two plus user_disconnected.
const (
	TypeUpdate           = "update"
	TypeCursorUpdate     = "cursor_update"
	TypeUserDisconnected = "user_disconnected"
)

// UpdateMessage carries a full replacement of the document content. The unit
// of synchronization is the entire delta; the last update to arrive wins.
type UpdateMessage struct {
	Type    string       `json:"type"`
	Changes models.Delta `json:"changes"`
}

// Validate rejects an update with no content to apply.
func (m UpdateMessage) Validate() error {
	if m.Changes.IsEmpty() {
		return fmt.Errorf("%s: empty changes", TypeUpdate)
	}
	return nil
}

// CursorMessage carries an ephemeral cursor/selection event. Never persisted.
type CursorMessage struct {
	Type           string `json:"type"`
	UserID         string `json:"user_id"`
	UserName       string `json:"user_name"`
	CursorPosition *int   `json:"cursor_position"`
	CursorLength   int    `json:"cursor_length"`
	CursorColor    string `json:"cursor_color"`
}

// Validate checks the fields clients must always send. Position is a pointer
// so index zero is distinguishable from missing.
func (m CursorMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.UserID, validation.Required),
		validation.Field(&m.CursorPosition, validation.NotNil),
	)
}

// DisconnectedMessage tells remaining subscribers to drop a user's cursor.
type DisconnectedMessage struct {
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// envelope sniffs the type tag before the full decode.
type envelope struct {
	Type string `json:"type"`
}

// DecodeInbound parses a raw client frame into one of the tagged inbound
// variants. Unknown types and malformed payloads return an error; the caller
// logs and drops, it never errors back over the socket.
func DecodeInbound(data []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode message envelope: %w", err)
	}

	switch env.Type {
	case TypeUpdate:
		var m UpdateMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode update: %w", err)
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		return m, nil
	case TypeCursorUpdate:
		var m CursorMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode cursor_update: %w", err)
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
}
