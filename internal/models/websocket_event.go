package models

import "encoding/json"

// WebSocketEvent is the wire envelope for realtime fan-out. Delivery
// is best-effort; the persisted state is authoritative.
type WebSocketEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}
