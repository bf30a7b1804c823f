package entity

import "time"

// ChatMessage is one side of a conversation turn, broadcast to monitor
// clients over WebSocket.
type ChatMessage struct {
	SessionID string    `json:"session_id"`
	Direction string    `json:"direction"` // "in" or "out"
	Text      string    `json:"text"`
	Action    Action    `json:"action,omitempty"`
	Stage     Stage     `json:"stage,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
