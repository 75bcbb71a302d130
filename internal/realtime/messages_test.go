package realtime

import (
	"testing"
)

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "update",
			data: `{"type":"update","changes":{"ops":[{"insert":"hello"}]}}`,
		},
		{
			name: "cursor update",
			data: `{"type":"cursor_update","user_id":"u1","cursor_position":0,"cursor_length":3,"cursor_color":"#00ff00"}`,
		},
		{
			name:    "update with empty changes",
			data:    `{"type":"update","changes":{"ops":[]}}`,
			wantErr: true,
		},
		{
			name:    "cursor without position",
			data:    `{"type":"cursor_update","user_id":"u1"}`,
			wantErr: true,
		},
		{
			name:    "cursor without user",
			data:    `{"type":"cursor_update","cursor_position":4}`,
			wantErr: true,
		},
		{
			name:    "unknown type",
			data:    `{"type":"subscribe"}`,
			wantErr: true,
		},
		{
			name:    "user_disconnected is server-to-client only",
			data:    `{"type":"user_disconnected","user_id":"u1"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			data:    `}{`,
			wantErr: true,
		},
		{
			name:    "missing type tag",
			data:    `{"changes":{"ops":[{"insert":"x"}]}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInbound([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Errorf("DecodeInbound(%s) = %+v, want error", tt.data, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeInbound(%s): %v", tt.data, err)
			}
		})
	}
}

func TestDecodeInboundZeroCursorPosition(t *testing.T) {
	// Index zero is a valid cursor position and must not read as missing.
	got, err := DecodeInbound([]byte(`{"type":"cursor_update","user_id":"u1","cursor_position":0}`))
	if err != nil {
		t.Fatalf("DecodeInbound: %v", err)
	}
	msg, ok := got.(CursorMessage)
	if !ok {
		t.Fatalf("got %T, want CursorMessage", got)
	}
	if msg.CursorPosition == nil || *msg.CursorPosition != 0 {
		t.Errorf("CursorPosition = %v, want 0", msg.CursorPosition)
	}
}

func TestDecodeInboundUpdatePayload(t *testing.T) {
	got, err := DecodeInbound([]byte(`{"type":"update","changes":{"ops":[{"insert":"ab","attributes":{"bold":true}}]}}`))
	if err != nil {
		t.Fatalf("DecodeInbound: %v", err)
	}
	msg, ok := got.(UpdateMessage)
	if !ok {
		t.Fatalf("got %T, want UpdateMessage", got)
	}
	if len(msg.Changes.Ops) != 1 || msg.Changes.Ops[0].Insert != "ab" {
		t.Errorf("Changes = %+v, want the decoded delta", msg.Changes)
	}
}
