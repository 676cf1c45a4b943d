package interfaces

import (
	"context"

	"dhonk_backend/internal/entities"
)

// ChatModel is a hosted chat-completion model.
type ChatModel interface {
	ChatCompletion(ctx context.Context, messages []entities.ChatMessage) (string, error)
}

// ContentSearcher finds the best matching brand page for a query.
type ContentSearcher interface {
	FindShortestMatch(ctx context.Context, query string) entities.LookupResult
}

// IntentDetector classifies a message and maps the label to a canned answer.
type IntentDetector interface {
	DetectIntent(text string) string
	IntentResponse(label string) (string, bool)
}
