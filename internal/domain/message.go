package domain

import "time"

// Message is one entry in the conversation transcript. The transcript is
// append-only; assistant entries are produced only by a completed run.
type Message struct {
	MessageID string    `json:"message_id"`
	ThreadID  string    `json:"thread_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
