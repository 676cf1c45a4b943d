package usecases

import (
	"context"
	"net/http"

	"dhonk_backend/internal/entities"
	"dhonk_backend/internal/interfaces"
)

// IntentGateway returns a canned answer when the intent detector has one.
type IntentGateway struct {
	detector interfaces.IntentDetector
}

func NewIntentGateway(detector interfaces.IntentDetector) *IntentGateway {
	return &IntentGateway{detector: detector}
}

func (g *IntentGateway) Source() entities.AnswerSource {
	return entities.SourceIntent
}

func (g *IntentGateway) Resolve(_ context.Context, msg entities.Message) (entities.Answer, bool) {
	label := g.detector.DetectIntent(msg.Content)
	text, ok := g.detector.IntentResponse(label)
	if !ok || text == "" {
		return entities.Answer{}, false
	}
	return entities.Answer{Text: text, Status: http.StatusOK, Source: entities.SourceIntent}, true
}
