package store

import (
	"context"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/domain"
)

// Store persists the conversation transcript and the live thread binding.
type Store interface {
	// Thread binding under the fixed conversation key.
	GetThreadID(ctx context.Context) (string, error)
	SaveThreadID(ctx context.Context, threadID string) error

	// Transcript.
	CreateMessage(ctx context.Context, msg *domain.Message) error
	GetMessages(ctx context.Context, limit int) ([]domain.Message, error)

	// ClearConversation removes the transcript and the thread binding together.
	ClearConversation(ctx context.Context) error

	Close() error
}
